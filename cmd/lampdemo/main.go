// Command lampdemo is a small program built on top of the lamp
// dispatch core: an interactive shell and a batch-script runner sharing
// one command tree, used to exercise overload resolution, cooldowns,
// suggestions, and orphan command paths end to end.
package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/abiosoft/ishell/v2"
	"github.com/abiosoft/readline"
	"github.com/spf13/cobra"

	"lamp"
	"lamp/internal/config"
	"lamp/internal/help"
	"lamp/internal/logger"
	"lamp/internal/tree"
)

var version = "0.1.0"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "lampdemo",
		Short: "demonstration shell for the lamp command dispatch core",
	}
	config.Flags(root.PersistentFlags())

	root.AddCommand(newShellCmd())
	root.AddCommand(newBatchCmd())
	root.AddCommand(newVersionCmd())
	root.AddCommand(newHelpCmd())
	return root
}

func loadSettings(cmd *cobra.Command) (config.Settings, error) {
	settings, err := config.Load(cmd.Flags(), "")
	if err != nil {
		return config.Settings{}, err
	}
	if err := logger.Configure(settings.LogLevel, settings.LogFile); err != nil {
		return config.Settings{}, err
	}
	return settings, nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "print the lampdemo version",
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := formatVersion(version)
			if err != nil {
				return err
			}
			fmt.Println(out)
			return nil
		},
	}
}

// formatVersion renders version through semver so a build tagged with
// prerelease or build-metadata information (e.g. "0.2.0-rc.1+42") has
// that detail printed rather than the bare string baked in at build
// time, and so a malformed -ldflags value is reported rather than
// printed verbatim.
func formatVersion(raw string) (string, error) {
	sv, err := semver.NewVersion(raw)
	if err != nil {
		return "", fmt.Errorf("parsing version %q: %w", raw, err)
	}
	out := fmt.Sprintf("lampdemo v%d.%d.%d", sv.Major(), sv.Minor(), sv.Patch())
	if sv.Prerelease() != "" {
		out += fmt.Sprintf(" (prerelease: %s)", sv.Prerelease())
	}
	if sv.Metadata() != "" {
		out += fmt.Sprintf(" +%s", sv.Metadata())
	}
	return out, nil
}

func newShellCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "start the interactive lampdemo shell",
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := loadSettings(cmd)
			if err != nil {
				return err
			}
			return runShell(settings)
		},
	}
}

func newBatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "batch [script]",
		Short: "run a script of lampdemo commands non-interactively",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := loadSettings(cmd)
			if err != nil {
				return err
			}
			return runBatch(settings, args[0])
		},
	}
}

func newHelpCmd() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "help",
		Short: "print every registered command's signature",
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := loadSettings(cmd)
			if err != nil {
				return err
			}
			lm, err := buildLamp(newDirectory(), settings)
			if err != nil {
				return err
			}
			out, err := renderHelp(lm.Commands(), format)
			if err != nil {
				return err
			}
			fmt.Println(out)
			return nil
		},
	}
	cmd.Flags().StringVar(&format, "format", "plain", "output format: plain, styled, or yaml")
	return cmd
}

// renderHelp picks the introspection renderer named by format, the
// same three the help package exposes: a line-per-command plain
// listing, a glamour/lipgloss styled listing for a real terminal, and
// a yaml.v3 machine-readable dump for scripts and other tools.
func renderHelp(commands []*tree.ExecutableCommand, format string) (string, error) {
	switch format {
	case "", "plain":
		return help.RenderPlain(commands), nil
	case "styled":
		return help.RenderStyled(commands), nil
	case "yaml":
		return help.RenderYAML(commands)
	default:
		return "", fmt.Errorf("unknown help format %q", format)
	}
}

func buildLamp(dir *directory, settings config.Settings) (*lamp.Lamp, error) {
	b := lamp.New()
	b.WithLogger(logger.Component("dispatch"))
	b.WithMaxFailedAttempts(settings.MaxFailedAttempts)
	b.ParameterTypes().Add(actorRefFactory(dir))
	if err := registerCommands(b, dir); err != nil {
		return nil, err
	}
	return b.Build(), nil
}

// stripPrefix removes settings' configured command prefix from raw, if
// present, so a user who types e.g. "!greet" reaches the same dispatch
// path as one who types "greet".
func stripPrefix(settings config.Settings, raw string) string {
	if settings.CommandPrefix == "" {
		return raw
	}
	if strings.HasPrefix(raw, settings.CommandPrefix) {
		return strings.TrimPrefix(raw, settings.CommandPrefix)
	}
	return raw
}

func runShell(settings config.Settings) error {
	dir := newDirectory()
	lm, err := buildLamp(dir, settings)
	if err != nil {
		return err
	}

	sh := ishell.NewWithConfig(&readline.Config{
		AutoComplete: newShellCompleter(lm),
	})
	sh.SetPrompt("lamp> ")
	if settings.HistoryFile != "" {
		sh.SetHomeHistoryPath(settings.HistoryFile)
	}
	sh.DeleteCmd("exit")
	sh.DeleteCmd("help")

	console := NewConsoleActor(sh)
	dir.register(console)
	dir.register(NewScriptActor("alice"))
	dir.register(NewScriptActor("bob"))

	sh.Println(fmt.Sprintf("lampdemo v%s - type \\exit to quit", version))
	sh.Println("other known actors: alice, bob")

	sh.NotFound(func(c *ishell.Context) {
		raw := strings.TrimSpace(strings.Join(c.RawArgs, " "))
		if raw == "" {
			return
		}
		if raw == `\exit` || raw == `\quit` {
			sh.Stop()
			return
		}
		dispatchLine(lm, console, stripPrefix(settings, raw))
	})

	sh.Run()
	return nil
}

func runBatch(settings config.Settings, scriptPath string) error {
	file, err := os.Open(scriptPath)
	if err != nil {
		return fmt.Errorf("opening script: %w", err)
	}
	defer file.Close()

	dir := newDirectory()
	lm, err := buildLamp(dir, settings)
	if err != nil {
		return err
	}

	actor := NewScriptActor("batch")
	dir.register(actor)
	dir.register(NewScriptActor("alice"))
	dir.register(NewScriptActor("bob"))

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		dispatchLine(lm, actor, stripPrefix(settings, line))
	}
	return scanner.Err()
}
