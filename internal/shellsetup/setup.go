// Package shellsetup emits shell integration snippets. The generated
// function wraps the binary so a zero-argument invocation opens the picked
// file in $EDITOR, while any arguments pass through untouched.
package shellsetup

import (
	"fmt"
	"io"
	"os"
	"path"
	"runtime"
	"strconv"
	"strings"
)

type ParentShellFunc func() string

type Config struct {
	DetectParent ParentShellFunc
}

// PrintSetup writes the integration snippet for the requested shell to w.
// With an empty override the shell is detected from the environment.
func PrintSetup(w io.Writer, shellOverride string, cfg Config) {
	parent := cfg.DetectParent
	if parent == nil {
		parent = DetectParentShellName
	}

	shell := normalizeShellName(shellOverride)
	if shell == "" {
		shell = detectShell(parent)
	}
	shell = canonicalShellName(shell)

	rpath, err := os.Executable()
	if err != nil {
		rpath = "tripick"
	}
	quoted := strconv.Quote(rpath)

	switch shell {
	case "fish":
		fmt.Fprintf(w, `function tripick
    if test (count $argv) -gt 0
        command %s $argv
        return $status
    end

    set -l file (command %s)
    set -l st $status
    if test $st -ne 0; or test -z "$file"
        return $st
    end
    set -l editor $EDITOR
    if test -z "$editor"
        set editor vi
    end
    $editor "$file"
end
`, quoted, quoted)
	case "pwsh":
		fmt.Fprintf(w, `function tripick {
    param([Parameter(ValueFromRemainingArguments=$true)][string[]]$Args)
    if ($Args.Count -gt 0) {
        & %s @Args
        return
    }

    $file = & %s
    if ($LASTEXITCODE -ne 0 -or [string]::IsNullOrEmpty($file)) {
        return
    }
    $editor = if ($env:EDITOR) { $env:EDITOR } else { "notepad" }
    & $editor $file
}
`, quoted, quoted)
	case "tcsh", "csh":
		fmt.Fprintf(w, "alias tripick '$EDITOR `%s`'\n", rpath)
	case "cmd":
		fmt.Fprintf(w, `:: Save as tripick.cmd and run "call tripick.cmd" from cmd.exe sessions.
@echo off
if "%%~1"=="" (
    for /f "delims=" %%%%f in ('%s') do (
        if not "%%%%f"=="" start "" "%%%%f"
    )
    exit /b 0
) else (
    %s %%*
    exit /b %%errorlevel%%
)
`, quoted, quoted)
	default:
		// bash, zsh, sh, ksh and anything unrecognized.
		fmt.Fprintf(w, `tripick() {
    if [ "$#" -gt 0 ]; then
        command %s "$@"
        return $?
    fi

    file=$(command %s)
    status=$?
    if [ $status -ne 0 ] || [ -z "$file" ]; then
        return $status
    fi
    "${EDITOR:-vi}" "$file"
}
`, quoted, quoted)
	}
}

func detectShell(parent ParentShellFunc) string {
	return detectShellInternal(runtime.GOOS, os.Getenv, parent)
}

func detectShellInternal(goos string, getenv func(string) string, parent ParentShellFunc) string {
	if shell := canonicalShellName(normalizeShellName(getenv("SHELL"))); shell != "" {
		return shell
	}

	if parent != nil {
		if shell := canonicalShellName(normalizeShellName(parent())); shell != "" {
			return shell
		}
	}

	if strings.EqualFold(goos, "windows") {
		if shell := canonicalShellName(normalizeShellName(getenv("COMSPEC"))); shell != "" {
			switch shell {
			case "pwsh", "cmd":
				return shell
			}
		}
		return "pwsh"
	}

	return "bash"
}

func canonicalShellName(name string) string {
	if name == "powershell" {
		return "pwsh"
	}
	return name
}

func normalizeShellName(value string) string {
	value = extractExecutable(strings.TrimSpace(value))
	if value == "" {
		return ""
	}

	value = strings.Trim(value, `"'`)
	value = strings.ReplaceAll(value, "\\", "/")
	base := strings.ToLower(path.Base(value))
	base = strings.TrimSuffix(base, ".exe")
	return strings.TrimSpace(base)
}

// extractExecutable strips arguments and quoting from a shell command line,
// leaving just the executable word.
func extractExecutable(value string) string {
	if value == "" {
		return ""
	}

	for _, quote := range []byte{'"', '\''} {
		if value[0] != quote {
			continue
		}
		rest := value[1:]
		if idx := strings.IndexByte(rest, quote); idx >= 0 {
			return rest[:idx]
		}
		return rest
	}

	if idx := strings.IndexAny(value, " \t"); idx >= 0 {
		return value[:idx]
	}
	return value
}
