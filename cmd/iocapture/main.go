// Command iocapture replays recorded test-generation step logs and captures
// the input/output tuples of one target operation.
package main

import "os"

func main() {
	if err := Execute(); err != nil {
		os.Exit(1)
	}
}
