package templates

import "strings"

// Names lists the templates offered when creating a note, in menu order.
var Names = []string{"blank", "concept", "exercise", "review", "interview"}

var bodies = map[string]string{
	"blank": "",

	"concept": `## {{title}}

**Subject:** {{subject}}
**Studied:** {{date}}

## Definition

## How it works

## Example

` + "```" + `
` + "```" + `

## Pitfalls

-
`,

	"exercise": `## {{title}}

**Subject:** {{subject}}
**Date:** {{date}}

## Problem

## Approach

## Solution

## Complexity

- Time:
- Space:
`,

	"review": `## {{title}}

**Subject:** {{subject}}
**Reviewed:** {{date}}

## Key points

-
-
-

## Still unclear

-

## Next review
`,

	"interview": `## {{title}}

**Subject:** {{subject}}
**Date:** {{date}}

## Question

## Short answer

## Follow-ups

-
`,
}

// Get returns the body for name with {{title}}, {{subject}} and {{date}}
// substituted. Unknown names fall back to "blank".
func Get(name, title, subject, date string) string {
	body, ok := bodies[name]
	if !ok {
		body = bodies["blank"]
	}
	r := strings.NewReplacer("{{title}}", title, "{{subject}}", subject, "{{date}}", date)
	return r.Replace(body)
}
