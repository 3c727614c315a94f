/*
Package haggis binds command-line arguments to a template whose own values
describe the result: a boolean field is a switch, a list field collects
values, anything else keeps the last value it was given.

	tpl := haggis.NewTemplate().
		Counter("count", 10).
		Flag("exclude", false).
		List("source").
		Text("destination", "")

	res := haggis.NewParser(tpl, haggis.DefaultConfig()).ParseArgs(os.Args[1:])
	files, _ := res.GetStrings("source")

# Arguments

Parse skips the first two entries of the argument vector, the
interpreter-and-script layout of script runners. Parser.ParseArgs takes the
arguments alone, such as os.Args[1:].

	--name     long flag, used verbatim as a field name
	-abc       short flags: each letter becomes the first field whose name
	           starts with it, or the letter itself when none does
	value      appended to the most recent flag, or to Config.Initial when no
	           flag came before it

Field order matters: with fields "size" and "source", -s means "size".
Parser.Ambiguities lists such collisions and every use is reported as a
diagnostic.

# Values

Every value token goes through Cast: blank text is null, true/false in any
case is a bool, numeric text is an int (whole numbers) or float, anything else
stays a string. No further coercion happens: "--count abc" stores the string.

# Defaults

A flag with no value binds true when it names a boolean field. A cluster like
-ab binds true only when every letter maps to a boolean field. Any other flag
without a value is dropped.

# Strict mode

With Config.Strict, names that are not template fields are dropped. Without
it they are added after the template fields. Parse never fails; dropped input
shows up in Result.Diagnostics.
*/
package haggis
