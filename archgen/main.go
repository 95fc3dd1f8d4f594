// Command archgen compiles an architecture description into the generated
// sources of one simulator build.
package main

import "github.com/sarchlab/archgen/archgen/cmd"

func main() {
	cmd.Execute()
}
