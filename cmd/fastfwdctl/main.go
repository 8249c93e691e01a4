package main

import "os"

func main() {
	if err := cmdFastFwdCtl.Execute(); err != nil {
		os.Exit(1)
	}
}
