package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/pflag"

	"github.com/darkclainer/dictui/pkg/controller"
	"github.com/darkclainer/dictui/pkg/dictionary"
	"github.com/darkclainer/dictui/pkg/querier"
)

const (
	codeErrorArgs = iota + 1
	codeLookupError
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	flags := pflag.NewFlagSet("dict", pflag.ContinueOnError)
	flags.SetOutput(stderr)
	word := flags.StringP("word", "w", controller.DefaultTerm, "word that you want to look up")
	all := flags.BoolP("all", "a", false, "print all definitions instead of the first one")
	asJSON := flags.BoolP("json", "j", false, "print definitions as JSON")
	baseURL := flags.String("base-url", querier.DefaultBaseURL, "dictionary API base url")
	timeout := flags.Duration("timeout", 10*time.Second, "lookup timeout")
	if err := flags.Parse(args); err != nil {
		return codeErrorArgs
	}
	if flags.NArg() > 0 {
		*word = flags.Arg(0)
	}

	q := querier.NewRemote(nil, nil, &querier.Config{
		BaseURL:    *baseURL,
		Timeout:    *timeout,
		MaxWorkers: 1,
	})
	defer q.Close(context.Background())

	result, err := q.Lookup(context.Background(), *word)
	if err != nil {
		fmt.Fprintf(stderr, "can not look up word %s: %s\n", *word, err)
		return codeLookupError
	}
	definitions := dictionary.Flatten(result)
	if !*all && len(definitions) > 1 {
		definitions = definitions[:1]
	}
	if *asJSON {
		s, err := json.MarshalIndent(definitions, "", "\t")
		if err != nil {
			fmt.Fprintf(stderr, "can not marshal definitions: %s\n", err)
			return codeLookupError
		}
		fmt.Fprintf(stdout, "%s\n", s)
		return 0
	}
	if len(definitions) == 0 {
		fmt.Fprintf(stdout, "No definitions found for %s\n", *word)
		return 0
	}
	for i, d := range definitions {
		if i > 0 {
			fmt.Fprintln(stdout)
		}
		fmt.Fprintf(stdout, "Definition: %s\nExample: %s\n", d.Definition, d.Example)
	}
	return 0
}
