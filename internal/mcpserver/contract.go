package mcpserver

import "github.com/quicknote/quicknote/internal/parser"

// NoteFormatContract describes the plain-text note file so LLM consumers can
// append entries the parser will pick up.
const NoteFormatContract = `# QuickNote File Format

A note file is plain UTF-8 text. Notes are separated by the delimiter

    ` + parser.Delimiter + `

(eighteen hyphens), normally on a line of its own.

## Each note

` + "```" + `text
[2024-01-02 09:30]
Free-form body text.
It may span several lines.
` + "```" + `

1. The **first line** is the date header. Every ` + "`[`" + ` and ` + "`]`" + ` is removed;
   the rest is shown as is and is not validated as a calendar date.
2. Everything after the first line is the **body**, trimmed of surrounding whitespace.
3. A note with no line break (a date and no body) is ignored.
4. Blank sections between two delimiters are ignored.
5. Notes are listed **newest first**: the last note in the file is shown first,
   so new entries are appended at the end.

## Example

` + "```" + `text
[2024-01-01]
Hello
` + parser.Delimiter + `
[2024-01-02]
World
` + "```" + `
`
