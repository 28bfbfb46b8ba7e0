package main

import (
	"github.com/grovetools/tend/pkg/assert"
	"github.com/grovetools/tend/pkg/harness"
)

// VersionScenario tests the 'version' command.
func VersionScenario() *harness.Scenario {
	return &harness.Scenario{
		Name: "vibediary-basic-version",
		Tags: []string{"vibediary", "basic"},
		Steps: []harness.Step{
			harness.NewStep("Run 'vibediary version'", func(ctx *harness.Context) error {
				result, err := runVibediary(ctx, "version")
				if err != nil {
					return err
				}

				if err := assert.Equal(0, result.ExitCode, "vibediary version should exit successfully"); err != nil {
					return err
				}
				if err := assert.Contains(result.Stdout, "Commit:", "Output should contain Commit"); err != nil {
					return err
				}
				return assert.Contains(result.Stdout, "Platform:", "Output should contain Platform")
			}),
		},
	}
}
