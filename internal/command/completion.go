// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"

	"github.com/orgctl/orgctl/internal/meta"
)

const bashCompletionScript = `# bash completion for orgctl
# Fallback if bash-completion is not installed
if ! declare -F _get_comp_words_by_ref >/dev/null 2>&1; then
  _get_comp_words_by_ref() {
    cur=${COMP_WORDS[COMP_CWORD]}
    prev=${COMP_WORDS[COMP_CWORD-1]}
  }
fi

_orgctl()
{
  local cur prev cmd
  COMPREPLY=()
  _get_comp_words_by_ref -n : cur prev

  if [[ ${COMP_CWORD} -eq 1 ]]; then
    COMPREPLY=( $(compgen -W "auth bd bq gd gq ms oi sd completion --help --version" -- "$cur") )
    return 0
  fi

  cmd=${COMP_WORDS[1]}
  local common="--attrs -a --color -c --filter -f --local -l --output -o --sort -s --titles -t"

  case "$cmd" in
    auth)
      if [[ ${COMP_CWORD} -eq 2 && "$cur" != -* ]]; then
        COMPREPLY=( $(compgen -W "github bitwarden" -- "$cur") )
        return 0
      fi
      local opts="--passphrase -p"
      ;;
    bd)
      local opts="--passphrase -p --tldr"
      ;;
    bq)
      if [[ ${COMP_CWORD} -eq 2 && "$cur" != -* ]]; then
        COMPREPLY=( $(compgen -W "members groups collections" -- "$cur") )
        return 0
      fi
      local opts="$common --schema --org --passphrase -p --snapshot --tldr"
      ;;
    gd)
      local opts="--org --passphrase -p --tldr"
      ;;
    gq)
      if [[ ${COMP_CWORD} -eq 2 && "$cur" != -* ]]; then
        COMPREPLY=( $(compgen -W "members teams" -- "$cur") )
        return 0
      fi
      local opts="$common --schema --org --passphrase -p --snapshot --tldr"
      ;;
    ms)
      local opts="$common --memberships -m"
      ;;
    oi)
      local opts=""
      ;;
    sd)
      local opts="--diff_filter --tldr"
      ;;
    completion)
      COMPREPLY=( $(compgen -W "bash zsh" -- "$cur") )
      return 0
      ;;
    *)
      local opts="$common"
      ;;
  esac

  if [[ "$prev" == "--output" || "$prev" == "-o" ]]; then
    COMPREPLY=( $(compgen -W "text json raw yaml" -- "$cur") )
    return 0
  fi

  if [[ "$cur" == -* ]]; then
    COMPREPLY=( $(compgen -W "$opts" -- "$cur") )
    return 0
  fi

  # gd, bd and ms take a manifest file positional
  case "$cmd" in
    gd|bd|ms)
      COMPREPLY=( $(compgen -f -- "$cur") )
      return 0
      ;;
  esac

  COMPREPLY=( $(compgen -W "$opts" -- "$cur") )
  return 0
}

complete -F _orgctl orgctl
`

const zshCompletionScript = `#compdef orgctl

_orgctl() {
  local -a cmds
  cmds=(
    'auth:store service credentials'
    'bd:bitwarden diff'
    'bq:bitwarden query'
    'gd:github diff'
    'gq:github query'
    'ms:manifest summary'
    'oi:interactive org inspector'
    'sd:snapshot diff'
    'completion:generate shell completion script'
  )

  local -a common
  common=(
    '(-a --attrs)'{-a,--attrs}'[attributes to include]:attrs'
    '(-c --color)'{-c,--color}'[enable colored text]'
    '(-f --filter)'{-f,--filter}'[filters to apply]:filters'
    '(-l --local)'{-l,--local}'[show local timestamps]'
    '(-o --output)'{-o,--output}'[output format]:format:(text json raw yaml)'
    '(-s --sort)'{-s,--sort}'[sort attributes]:attrs'
    '(-t --titles)'{-t,--titles}'[show titles]'
  )

  if (( CURRENT == 2 )); then
    _describe -t commands 'orgctl commands' cmds
    return
  fi

  local curcontext="$curcontext" state line
  case $words[2] in
    auth)
      _arguments -C \
        '(-p --passphrase)'{-p,--passphrase}'[credentials store passphrase]' \
        '1: :((github bitwarden))'
      ;;
    bd)
      _arguments -C \
        '(-p --passphrase)'{-p,--passphrase}'[credentials store passphrase]' \
        '--tldr[show tldr page]' \
        '::manifest:_files'
      ;;
    bq)
      _arguments -C \
        $common \
        '--schema[dump schema]' \
        '--org[organization]' \
        '(-p --passphrase)'{-p,--passphrase}'[credentials store passphrase]' \
        '--snapshot[write the fetched state to a snapshot]' \
        '--tldr[show tldr page]' \
        '1: :((members groups collections))'
      ;;
    gd)
      _arguments -C \
        '--org[organization]' \
        '(-p --passphrase)'{-p,--passphrase}'[credentials store passphrase]' \
        '--tldr[show tldr page]' \
        '::manifest:_files'
      ;;
    gq)
      _arguments -C \
        $common \
        '--schema[dump schema]' \
        '--org[organization]' \
        '(-p --passphrase)'{-p,--passphrase}'[credentials store passphrase]' \
        '--snapshot[write the fetched state to a snapshot]' \
        '--tldr[show tldr page]' \
        '1: :((members teams))'
      ;;
    ms)
      _arguments -C \
        $common \
        '(-m --memberships)'{-m,--memberships}'[include membership rows]' \
        '::manifest:_files'
      ;;
    oi)
      _arguments -C \
        '::snapshot spec:'
      ;;
    sd)
      _arguments -C \
        '--diff_filter[filter for diff results]' \
        '--tldr[show tldr page]'
      ;;
    completion)
      _arguments '1: :((bash zsh))'
      ;;
    *)
      _arguments -C $common
      ;;
  esac
}

# If this file is sourced directly (not autoloaded via fpath), ensure compsys
# is initialized and register the completion
if ! typeset -f compdef >/dev/null 2>&1; then
  autoload -Uz compinit && compinit -i
fi
compdef _orgctl orgctl
`

// scriptFor maps a shell name to its completion script.
func scriptFor(shell string) (string, bool) {
	switch shell {
	case "bash":
		return bashCompletionScript, true
	case "zsh":
		return zshCompletionScript, true
	}
	return "", false
}

func completionCommandAction(_ context.Context, cmd *cli.Command) error {
	shell := cmd.Args().First()
	if shell == "" {
		// No argument; fall back to the login shell.
		shell = filepath.Base(os.Getenv("SHELL"))
	}

	script, ok := scriptFor(shell)
	if !ok {
		fmt.Fprintln(os.Stderr, "usage: orgctl completion [bash|zsh]")
		return nil
	}
	fmt.Fprint(os.Stdout, script)
	return nil
}

func completionCommandBuilder(meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "completion",
		Usage:     "generate shell completion script",
		UsageText: "orgctl completion [bash|zsh]",
		Metadata: map[string]any{
			"meta": meta,
		},
		Action: completionCommandAction,
	}
}
