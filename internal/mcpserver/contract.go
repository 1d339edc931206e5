package mcpserver

// DateFormatContract describes the token mini-language that date sections
// use to render their value. LLM consumers should follow it when setting a
// section's dateFormat or customDateFormat.
const DateFormatContract = `# Notecraftr Date Format Contract

Date sections render their value through a token pattern. Any character
outside a recognized token passes through unchanged.

## Tokens

| Token | Meaning                     | Example |
|-------|-----------------------------|---------|
| YYYY  | 4-digit year                | 2024    |
| YY    | 2-digit year                | 24      |
| MMMM  | Full English month name     | January |
| MMM   | Short English month name    | Jan     |
| MM    | 2-digit month               | 01      |
| DD    | 2-digit day of month        | 05      |
| Do    | Day with ordinal suffix     | 5th     |
| HH    | 2-digit hour, 24-hour clock | 13      |
| H     | Hour, 24-hour clock         | 13      |
| hh    | 2-digit hour, 12-hour clock | 01      |
| h     | Hour, 12-hour clock         | 1       |
| mm    | 2-digit minute              | 07      |
| m     | Minute                      | 7       |
| ss    | 2-digit second              | 09      |
| s     | Second                      | 9       |
| A     | AM / PM                     | PM      |

Longer tokens win over their prefixes: ` + "`MMMM`" + ` is never read as two
` + "`MM`" + ` tokens. Month names are always English regardless of locale.

## Rules

1. A section whose ` + "`dateFormat`" + ` is the sentinel ` + "`Custom`" + ` renders with its
   ` + "`customDateFormat`" + ` pattern instead.
2. An empty ` + "`dateFormat`" + ` falls back to ` + "`DD/MM/YYYY`" + `.
3. Ordinal suffixes follow English rules: 1st, 2nd, 3rd, 4th, ... with
   11th, 12th and 13th as exceptions.

## Preset formats

` + "```" + `
Custom
DD/MM/YYYY        MM/DD/YYYY        YYYY/MM/DD
DD-MM-YYYY        MM-DD-YYYY        YYYY-MM-DD
DD MMM YYYY       MMM DD YYYY       YYYY DD MMM
DD MMMM YYYY      MMMM DD YYYY      YYYY MMMM DD
MMMM Do, YYYY     Do MMMM YYYY
YYYY-MM-DD HH:mm:ss
MMMM DD, YYYY h:mm A
MM/DD/YY hh:mm:ss A
` + "```" + `

## Example

Pattern ` + "`Do MMMM YYYY, h:mm A`" + ` renders 2024-01-05 13:07 as
` + "`5th January 2024, 1:07 PM`" + `.
`
