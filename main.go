package main

import (
	cmd "github.com/redhat-openshift-ecosystem/unified-test-report/cmd/utr"
)

func main() {
	cmd.Execute()
}
