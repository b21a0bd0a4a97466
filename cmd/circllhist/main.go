// Command circllhist inspects, merges and summarizes log-linear histograms
// in the circllhist wire format.
package main

import "github.com/liuxd6825/circllhist/cmd"

func main() {
	cmd.Execute()
}
