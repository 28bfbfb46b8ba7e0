package main

import (
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/grovetools/tend/pkg/fs"
	"github.com/grovetools/tend/pkg/harness"
)

// findVibediaryBinary finds the vibediary binary under test.
// The binary must be on PATH.
func findVibediaryBinary() (string, error) {
	path, err := exec.LookPath("vibediary")
	if err != nil {
		return "", fmt.Errorf("could not find 'vibediary' binary in PATH; build ./cmd/vibediary into PATH first")
	}
	return path, nil
}

// isolatedEnv clears the variables that would point the binary at the
// developer's own diary or provider accounts.
var isolatedEnv = []string{
	"VIBE_DIARY_HOME", "VIBE_DIARY_SESSIONS_DIR", "VIBE_DIARY_POSTS_DIR", "VIBE_DIARY_PROVIDERS",
	"ANTHROPIC_API_KEY", "GEMINI_API_KEY", "OPENAI_API_KEY",
}

// runResult is what a scenario step inspects after running the binary.
type runResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// diaryHome is the default diary home inside the sandboxed HOME.
func diaryHome(ctx *harness.Context) string {
	return filepath.Join(ctx.HomeDir(), ".claude", "vibe-diary")
}

// runHook writes payload to a file and pipes it to 'vibediary hook <stage>'.
func runHook(ctx *harness.Context, stage, payload string, extraArgs ...string) (*runResult, error) {
	bin, err := findVibediaryBinary()
	if err != nil {
		return nil, err
	}

	payloadDir := filepath.Join(ctx.RootDir, "payloads")
	if err := fs.CreateDir(payloadDir); err != nil {
		return nil, err
	}
	payloadFile := filepath.Join(payloadDir, stage+".json")
	if err := fs.WriteString(payloadFile, payload); err != nil {
		return nil, err
	}

	var unset []string
	for _, v := range isolatedEnv {
		unset = append(unset, "-u", v)
	}
	script := fmt.Sprintf("env %s %q hook %s %s < %q",
		strings.Join(unset, " "), bin, stage, strings.Join(extraArgs, " "), payloadFile)

	cmd := ctx.Command("sh", "-c", script)
	result := cmd.Run()
	ctx.ShowCommandOutput(cmd.String(), result.Stdout, result.Stderr)
	return &runResult{Stdout: result.Stdout, Stderr: result.Stderr, ExitCode: result.ExitCode}, nil
}

// runVibediary runs a non-hook command with the isolated environment.
func runVibediary(ctx *harness.Context, args ...string) (*runResult, error) {
	bin, err := findVibediaryBinary()
	if err != nil {
		return nil, err
	}

	envArgs := []string{}
	for _, v := range isolatedEnv {
		envArgs = append(envArgs, "-u", v)
	}
	envArgs = append(envArgs, bin)
	envArgs = append(envArgs, args...)

	cmd := ctx.Command("env", envArgs...)
	result := cmd.Run()
	ctx.ShowCommandOutput(cmd.String(), result.Stdout, result.Stderr)
	return &runResult{Stdout: result.Stdout, Stderr: result.Stderr, ExitCode: result.ExitCode}, nil
}
