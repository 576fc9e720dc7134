// genrow loads a schema file and prints a single generated row. It is a
// quick smoke check for schema files, kept out of the main CLI so it
// stays dependency-light and scriptable.
package main

import (
	"fmt"
	"os"
	"strings"

	"fourree/internal/gen"
	"fourree/internal/schema"
)

const envSchemaPath = "FOURREE_SCHEMA"

func resolveSchemaPath(args []string) (string, error) {
	if len(args) > 0 && strings.TrimSpace(args[0]) != "" {
		return args[0], nil
	}
	if raw := strings.TrimSpace(os.Getenv(envSchemaPath)); raw != "" {
		return raw, nil
	}
	return "", fmt.Errorf("usage: genrow SCHEMA (or set %s)", envSchemaPath)
}

func generateRow(path string) (string, error) {
	s, err := schema.Load(path)
	if err != nil {
		return "", err
	}
	rng := gen.NewRand(0, 0)
	return strings.Join(gen.Row(rng, s), "\t"), nil
}

func main() {
	path, err := resolveSchemaPath(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	row, err := generateRow(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "genrow: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(row)
}
