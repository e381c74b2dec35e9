package main

import "github.com/covidactnow/datapublic/pkg/cmd/datapublic-cli/cmd"

func main() {
	cmd.Execute()
}
