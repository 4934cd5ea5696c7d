// Command dboutline prints an indented outline of a database's schemas,
// tables and columns.
package main

import "os"

func main() {
	os.Exit(execute())
}
