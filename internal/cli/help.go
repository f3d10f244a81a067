package cli

import (
	"fmt"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/lipgloss"
)

var (
	helpTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor)

	helpDescStyle = lipgloss.NewStyle().
			Foreground(mutedColor).
			Italic(true)

	helpSectionStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(accentColor).
				MarginTop(1)

	helpFlagStyle = lipgloss.NewStyle().
			Foreground(accentColor).
			Bold(true)

	helpArgStyle = lipgloss.NewStyle().
			Foreground(primaryColor).
			Bold(true)

	helpDefaultStyle = lipgloss.NewStyle().
				Foreground(mutedColor).
				Italic(true)
)

// StyledHelpPrinter returns a kong help printer that renders the model's
// name, description, arguments and flags with lipgloss.
func StyledHelpPrinter() kong.HelpPrinter {
	return func(_ kong.HelpOptions, ctx *kong.Context) error {
		var sb strings.Builder

		sb.WriteString(helpTitleStyle.Render(ctx.Model.Name))
		sb.WriteString("\n")
		if ctx.Model.Help != "" {
			sb.WriteString(helpDescStyle.Render(ctx.Model.Help))
			sb.WriteString("\n")
		}

		args := getArguments(ctx)

		sb.WriteString(helpSectionStyle.Render("Usage:"))
		sb.WriteString("\n  ")
		sb.WriteString(ctx.Model.Name)
		for _, a := range args {
			sb.WriteString(" " + a.name)
		}
		sb.WriteString(" [flags]\n")

		if len(args) > 0 {
			sb.WriteString(helpSectionStyle.Render("Arguments:"))
			sb.WriteString("\n")
			for _, a := range args {
				sb.WriteString("  ")
				sb.WriteString(helpArgStyle.Render(a.name))
				if a.help != "" {
					sb.WriteString("  " + a.help)
				}
				sb.WriteString("\n")
			}
		}

		sb.WriteString(helpSectionStyle.Render("Flags:"))
		sb.WriteString("\n")
		for _, f := range getFlags(ctx) {
			sb.WriteString("  ")
			sb.WriteString(helpFlagStyle.Render(f.flags))
			if f.help != "" {
				sb.WriteString("  " + f.help)
			}
			if f.defaultVal != "" {
				sb.WriteString(" ")
				sb.WriteString(helpDefaultStyle.Render("(default: " + f.defaultVal + ")"))
			}
			sb.WriteString("\n")
		}

		_, err := fmt.Fprint(ctx.Stdout, sb.String())
		return err
	}
}

type argument struct {
	name string
	help string
}

type flag struct {
	flags      string
	help       string
	defaultVal string
}

func getArguments(ctx *kong.Context) []argument {
	args := make([]argument, 0, len(ctx.Model.Node.Positional))
	for _, arg := range ctx.Model.Node.Positional {
		args = append(args, argument{name: arg.Summary(), help: arg.Help})
	}
	return args
}

func getFlags(ctx *kong.Context) []flag {
	flags := []flag{{flags: "-h, --help", help: "Show context-sensitive help."}}

	for _, f := range ctx.Model.Node.Flags {
		if f.Name == "help" || f.Hidden {
			continue
		}

		var flagStr string
		if f.Short != 0 {
			flagStr = fmt.Sprintf("-%c, --%s", f.Short, f.Name)
		} else {
			flagStr = "--" + f.Name
		}
		if !f.IsBool() {
			placeholder := f.PlaceHolder
			if placeholder == "" {
				placeholder = f.Name
			}
			flagStr += "=" + strings.ToUpper(placeholder)
		}

		var defaultVal string
		if f.HasDefault && !f.IsBool() && f.Default != "" {
			defaultVal = f.Default
		}

		flags = append(flags, flag{flags: flagStr, help: f.Help, defaultVal: defaultVal})
	}
	return flags
}
