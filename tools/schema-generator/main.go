package main

import (
	"log"
	"os"
	"path/filepath"

	"github.com/grovetools/vibediary/config"
	"github.com/spf13/pflag"
)

func main() {
	output := pflag.StringP("output", "o", "schema/definitions/vibediary.schema.json", "Path of the generated schema file")
	pflag.Parse()

	schemaBytes, err := config.GenerateSchema()
	if err != nil {
		log.Fatalf("Error generating schema: %v", err)
	}

	// Ensure the output directory exists.
	if err := os.MkdirAll(filepath.Dir(*output), 0755); err != nil {
		log.Fatalf("Error creating schema directory: %v", err)
	}

	if err := os.WriteFile(*output, append(schemaBytes, '\n'), 0644); err != nil {
		log.Fatalf("Error writing schema file: %v", err)
	}

	log.Printf("Successfully generated schema at %s", *output)
}
