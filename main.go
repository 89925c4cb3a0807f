/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package main

import "github.com/tempoflow-ai/tempoflow/cmd"

func main() {
	cmd.Execute()
}
