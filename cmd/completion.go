package cmd

import (
	"fmt"
	"os"
)

const bashCompletion = `_draftlock() {
    local cur prev commands
    COMPREPLY=()
    cur="${COMP_WORDS[COMP_CWORD]}"
    prev="${COMP_WORDS[COMP_CWORD-1]}"
    commands="save load update clear status diff keyring completion help"

    if [[ ${COMP_CWORD} -eq 1 ]]; then
        COMPREPLY=( $(compgen -W "${commands}" -- "${cur}") )
        return 0
    fi

    case "${prev}" in
        save|update|diff)
            COMPREPLY=( $(compgen -f -- "${cur}") )
            ;;
        keyring)
            COMPREPLY=( $(compgen -W "save rm status" -- "${cur}") )
            ;;
        completion)
            COMPREPLY=( $(compgen -W "bash zsh fish" -- "${cur}") )
            ;;
    esac
    return 0
}
complete -F _draftlock draftlock
`

const zshCompletion = `#compdef draftlock
_draftlock() {
    local -a commands
    commands=(
        'save:Encrypt and store a draft file'
        'load:Decrypt and output the saved draft'
        'update:Re-save a draft under the remembered passphrase'
        'clear:Delete the saved draft'
        'status:Show draft status without a passphrase'
        'diff:Compare the saved draft with a local file'
        'keyring:Manage the OS keyring passphrase entry'
        'completion:Generate shell completions'
        'help:Show help for a command'
    )

    if (( CURRENT == 2 )); then
        _describe 'command' commands
        return
    fi

    case "${words[2]}" in
        save|update|diff) _files ;;
        keyring) _values 'subcommand' save rm status ;;
        completion) _values 'shell' bash zsh fish ;;
    esac
}
_draftlock "$@"
`

const fishCompletion = `complete -c draftlock -n '__fish_use_subcommand' -a save -d 'Encrypt and store a draft file'
complete -c draftlock -n '__fish_use_subcommand' -a load -d 'Decrypt and output the saved draft'
complete -c draftlock -n '__fish_use_subcommand' -a update -d 'Re-save a draft under the remembered passphrase'
complete -c draftlock -n '__fish_use_subcommand' -a clear -d 'Delete the saved draft'
complete -c draftlock -n '__fish_use_subcommand' -a status -d 'Show draft status without a passphrase'
complete -c draftlock -n '__fish_use_subcommand' -a diff -d 'Compare the saved draft with a local file'
complete -c draftlock -n '__fish_use_subcommand' -a keyring -d 'Manage the OS keyring passphrase entry'
complete -c draftlock -n '__fish_use_subcommand' -a completion -d 'Generate shell completions'
complete -c draftlock -n '__fish_seen_subcommand_from keyring' -a 'save rm status'
complete -c draftlock -n '__fish_seen_subcommand_from completion' -a 'bash zsh fish'
`

// Completion outputs a shell completion script
func Completion(shell string) {
	switch shell {
	case "bash":
		fmt.Print(bashCompletion)
	case "zsh":
		fmt.Print(zshCompletion)
	case "fish":
		fmt.Print(fishCompletion)
	default:
		fmt.Fprintf(os.Stderr, "Unsupported shell: %s (supported: bash, zsh, fish)\n", shell)
		os.Exit(1)
	}
}
