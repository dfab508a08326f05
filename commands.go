package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/yash-srivastava19/studynotes/internal/ai"
	"github.com/yash-srivastava19/studynotes/internal/api"
	"github.com/yash-srivastava19/studynotes/internal/config"
	"github.com/yash-srivastava19/studynotes/internal/event"
	"github.com/yash-srivastava19/studynotes/internal/notes"
	"github.com/yash-srivastava19/studynotes/internal/templates"
)

// clean strips terminal control sequences from backend text.
func clean(s string) string { return ai.PlainStyler{}.Escape(s) }

func printPage(p *notes.Page) {
	if len(p.Content) == 0 {
		fmt.Fprintln(os.Stderr, "no notes")
		return
	}
	for _, n := range p.Content {
		star := " "
		if n.IsFavorite {
			star = "★"
		}
		tags := ""
		if len(n.Tags) > 0 {
			tags = clean("  #" + strings.Join(n.Tags, " #"))
		}
		fmt.Printf("%6d %s %-14s %s%s\n", n.ID, star, clean(n.Subject), clean(n.Title), tags)
	}
	fmt.Printf("page %d/%d  (%d notes)\n", p.Number+1, max(1, p.TotalPages), p.TotalElements)
}

func listCmd() *cobra.Command {
	var (
		page      int
		favorites bool
	)
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "list notes, newest first",
		Args:    cobra.NoArgs,
		RunE: withApp(func(ctx context.Context, a *app, _ []string) error {
			var (
				p   *notes.Page
				err error
			)
			if favorites {
				p, err = a.client.ListFavorites(ctx, page-1, a.cfg.PageSize)
			} else {
				p, err = a.client.ListNotes(ctx, api.ListParams{Page: page - 1})
			}
			if err != nil {
				return err
			}
			printPage(p)
			return nil
		}),
	}
	cmd.Flags().IntVarP(&page, "page", "p", 1, "page number, starting at 1")
	cmd.Flags().BoolVarP(&favorites, "favorites", "f", false, "only favorites")
	return cmd
}

func searchCmd() *cobra.Command {
	var (
		f        notes.Filters
		favorite bool
		page     int
	)
	cmd := &cobra.Command{
		Use:     "search [keyword]",
		Aliases: []string{"s"},
		Short:   "search notes by keyword, subject, tag or favorite",
		RunE: withApp(func(ctx context.Context, a *app, args []string) error {
			f.Keyword = strings.Join(args, " ")
			if favorite {
				f.IsFavorite = notes.Favorite(true)
			}
			if !f.Active() {
				return errors.New("give a keyword or at least one filter")
			}
			p, err := a.client.SearchNotes(ctx, f, page-1, a.cfg.PageSize)
			if err != nil {
				return err
			}
			printPage(p)
			return nil
		}),
	}
	cmd.Flags().StringVar(&f.Subject, "subject", "", "filter by subject")
	cmd.Flags().StringVar(&f.Tag, "tag", "", "filter by tag")
	cmd.Flags().BoolVar(&favorite, "favorite", false, "only favorites")
	cmd.Flags().IntVarP(&page, "page", "p", 1, "page number, starting at 1")
	return cmd
}

func showCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "print a note as markdown",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(ctx context.Context, a *app, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			n, err := a.client.GetNote(ctx, id)
			if err != nil {
				return err
			}
			doc, err := notes.Markdown(n)
			if err != nil {
				return err
			}
			fmt.Print(clean(doc))
			return nil
		}),
	}
}

func newCmd() *cobra.Command {
	var (
		in       notes.NoteInput
		tags     []string
		template string
	)
	cmd := &cobra.Command{
		Use:     "new <title>",
		Aliases: []string{"n"},
		Short:   "create a note; content comes from --content, a template or stdin",
		Args:    cobra.MinimumNArgs(1),
		RunE: withApp(func(ctx context.Context, a *app, args []string) error {
			in.Title = strings.Join(args, " ")

			ts := notes.NewTagSet()
			for _, t := range tags {
				if err := ts.Add(t); err != nil {
					return fmt.Errorf("tag %q: %w", t, err)
				}
			}
			in.Tags = ts.Tags()

			if in.Content == "" && template != "" {
				in.Content = templates.Get(template, in.Title, in.Subject, time.Now().Format("2006-01-02"))
			}
			if in.Content == "" {
				data, err := io.ReadAll(os.Stdin)
				if err != nil {
					return err
				}
				in.Content = string(data)
			}

			if errs := in.Validate(); len(errs) > 0 {
				return errs
			}
			n, err := a.client.CreateNote(ctx, in)
			if err != nil {
				return err
			}
			a.bus.Publish(event.New(event.Create, n.ID))
			fmt.Printf("%s: #%d %s\n", config.MsgNoteCreated, n.ID, clean(n.Title))
			return nil
		}),
	}
	cmd.Flags().StringVar(&in.Subject, "subject", config.Subjects[0], "subject")
	cmd.Flags().StringVar(&in.Content, "content", "", "note content (markdown)")
	cmd.Flags().StringSliceVarP(&tags, "tag", "t", nil, "tag, repeatable")
	cmd.Flags().StringVar(&template, "template", "", "body template: "+strings.Join(templates.Names, ", "))
	return cmd
}

func favCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fav <id>",
		Short: "toggle a note's favorite flag",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(ctx context.Context, a *app, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			n, err := a.client.ToggleFavorite(ctx, id)
			if err != nil {
				return err
			}
			a.bus.Publish(event.New(event.Favorite, id))
			if n.IsFavorite {
				fmt.Println(config.MsgFavoriteAdded)
			} else {
				fmt.Println(config.MsgFavoriteRemoved)
			}
			return nil
		}),
	}
}

func deleteCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "delete a note",
		Args:    cobra.ExactArgs(1),
		RunE: withApp(func(ctx context.Context, a *app, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if !yes {
				fmt.Fprintf(os.Stderr, "delete note %d? [y/N] ", id)
				var answer string
				fmt.Scanln(&answer)
				if !strings.EqualFold(strings.TrimSpace(answer), "y") {
					return nil
				}
			}
			if err := a.client.DeleteNote(ctx, id); err != nil {
				return err
			}
			a.bus.Publish(event.New(event.Delete, id))
			fmt.Println(config.MsgNoteDeleted)
			return nil
		}),
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation")
	return cmd
}

func askCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ask <id> <question>",
		Short: "ask the AI assistant about a note",
		Args:  cobra.MinimumNArgs(2),
		RunE: withApp(func(ctx context.Context, a *app, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			n, err := a.client.GetNote(ctx, id)
			if err != nil {
				return err
			}
			if !a.assistant.Init(ctx) {
				return errors.New(config.MsgAIUnavailable)
			}
			answer, err := a.assistant.Open(n.ID, n.Content).Ask(ctx, strings.Join(args[1:], " "))
			if err != nil {
				return errors.New(api.Message(err))
			}
			fmt.Println(ai.Format(answer, ai.PlainStyler{}))
			return nil
		}),
	}
}

func historyCmd() *cobra.Command {
	var wipe bool
	cmd := &cobra.Command{
		Use:   "history <id>",
		Short: "show or clear the stored AI conversation for a note",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(_ context.Context, a *app, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			h := a.assistant.History()
			if wipe {
				h.Clear(id)
				fmt.Println(config.MsgAICleared)
				return nil
			}
			list := h.Load(id)
			if len(list) == 0 {
				fmt.Fprintln(os.Stderr, "no conversation for this note")
				return nil
			}
			for _, ex := range list {
				fmt.Printf("[%s]\nQ: %s\nA: %s\n\n", ex.Timestamp, clean(ex.Question), ai.Format(ex.Answer, ai.PlainStyler{}))
			}
			return nil
		}),
	}
	cmd.Flags().BoolVar(&wipe, "clear", false, "delete the stored conversation")
	return cmd
}

func exportCmd() *cobra.Command {
	var (
		dir string
		all bool
	)
	cmd := &cobra.Command{
		Use:   "export [id...]",
		Short: "write notes as markdown files with YAML frontmatter",
		RunE: withApp(func(ctx context.Context, a *app, args []string) error {
			if dir == "" {
				dir = a.cfg.ExportDir
			}
			var list []notes.Note
			switch {
			case all:
				for page := 0; ; page++ {
					p, err := a.client.ListNotes(ctx, api.ListParams{Page: page, Size: config.MaxPageSize})
					if err != nil {
						return err
					}
					list = append(list, p.Content...)
					if page+1 >= p.TotalPages {
						break
					}
				}
			case len(args) == 0:
				return errors.New("give note ids or --all")
			default:
				for _, arg := range args {
					id, err := parseID(arg)
					if err != nil {
						return err
					}
					n, err := a.client.GetNote(ctx, id)
					if err != nil {
						return err
					}
					list = append(list, *n)
				}
			}
			for i := range list {
				path, err := notes.Export(dir, &list[i])
				if err != nil {
					return err
				}
				fmt.Println(path)
			}
			return nil
		}),
	}
	cmd.Flags().StringVarP(&dir, "dir", "d", "", "output directory (default from config)")
	cmd.Flags().BoolVar(&all, "all", false, "export every note")
	return cmd
}

func statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "show note, favorite, subject and tag counts",
		Args:  cobra.NoArgs,
		RunE: withApp(func(ctx context.Context, a *app, _ []string) error {
			all, err := a.client.ListNotes(ctx, api.ListParams{Size: 1})
			if err != nil {
				return err
			}
			favs, err := a.client.ListFavorites(ctx, 0, 1)
			if err != nil {
				return err
			}
			subjects, err := a.client.ListSubjects(ctx)
			if err != nil {
				return err
			}
			tags := a.client.ListTags(ctx)

			fmt.Printf("notes:     %d\n", all.TotalElements)
			fmt.Printf("favorites: %d\n", favs.TotalElements)
			fmt.Printf("subjects:  %d  %s\n", len(subjects), clean(strings.Join(subjects, ", ")))
			fmt.Printf("tags:      %d  %s\n", len(tags), clean(strings.Join(tags, ", ")))
			return nil
		}),
	}
}

func healthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "check the notes API and the AI service",
		Args:  cobra.NoArgs,
		RunE: withApp(func(ctx context.Context, a *app, _ []string) error {
			ok := true
			if _, err := a.client.ListNotes(ctx, api.ListParams{Size: 1}); err != nil {
				fmt.Printf("notes api  %s  down (%s)\n", a.cfg.APIBaseURL, clean(api.Message(err)))
				ok = false
			} else {
				fmt.Printf("notes api  %s  ok\n", a.cfg.APIBaseURL)
			}
			if a.client.Health(ctx) {
				fmt.Printf("ai service %s  ok\n", a.cfg.AIBaseURL)
			} else {
				fmt.Printf("ai service %s  down\n", a.cfg.AIBaseURL)
				ok = false
			}
			if !ok {
				return errors.New("some services are unavailable")
			}
			return nil
		}),
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "print the version",
		Args:  cobra.NoArgs,
		Run: func(*cobra.Command, []string) {
			fmt.Println("studynotes " + version)
		},
	}
}
