package main

import "os"

func main() {
	if err := cmdFastFwd.Execute(); err != nil {
		os.Exit(1)
	}
}
