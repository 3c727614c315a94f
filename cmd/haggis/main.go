// Command haggis binds command-line arguments to a template file and prints
// the result.
//
//	haggis --template copy.json -- -s index.js package.json -d /tmp --exclude
package main

import "os"

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}
