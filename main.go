package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/draftlock/draftlock/cmd"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "save":
		runSave(os.Args[2:])
	case "load":
		runLoad(os.Args[2:])
	case "update":
		runUpdate(os.Args[2:])
	case "clear":
		runClear(os.Args[2:])
	case "status":
		runStatus(os.Args[2:])
	case "diff":
		runDiff(os.Args[2:])
	case "keyring":
		runKeyring(os.Args[2:])
	case "completion":
		runCompletion(os.Args[2:])
	case "help", "-h", "--help":
		if len(os.Args) <= 2 {
			printUsage()
			return
		}
		printCommandHelp(os.Args[2])
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func runSave(args []string) {
	fs := flag.NewFlagSet("save", flag.ExitOnError)
	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}

	if len(fs.Args()) != 1 {
		fmt.Fprintln(os.Stderr, "Usage: draftlock save <file>")
		os.Exit(1)
	}
	cmd.Save(fs.Arg(0))
}

func runLoad(args []string) {
	fs := flag.NewFlagSet("load", flag.ExitOnError)
	output := fs.String("o", "", "Write the draft to a file instead of stdout")
	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}

	cmd.Load(*output)
}

func runUpdate(args []string) {
	fs := flag.NewFlagSet("update", flag.ExitOnError)
	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}

	if len(fs.Args()) != 1 {
		fmt.Fprintln(os.Stderr, "Usage: draftlock update <file>")
		os.Exit(1)
	}
	cmd.Update(fs.Arg(0))
}

func runClear(args []string) {
	fs := flag.NewFlagSet("clear", flag.ExitOnError)
	force := fs.Bool("force", false, "Delete without confirmation")
	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}

	cmd.Clear(*force)
}

func runStatus(args []string) {
	fs := flag.NewFlagSet("status", flag.ExitOnError)
	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}

	cmd.Status()
}

func runDiff(args []string) {
	fs := flag.NewFlagSet("diff", flag.ExitOnError)
	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}

	if len(fs.Args()) != 1 {
		fmt.Fprintln(os.Stderr, "Usage: draftlock diff <file>")
		os.Exit(1)
	}
	cmd.Diff(fs.Arg(0))
}

func runKeyring(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: draftlock keyring <save|rm|status>")
		os.Exit(1)
	}

	switch args[0] {
	case "save":
		cmd.KeyringSave()
	case "rm":
		cmd.KeyringDelete()
	case "status":
		cmd.KeyringStatus()
	default:
		fmt.Fprintf(os.Stderr, "Unknown keyring subcommand: %s\n", args[0])
		fmt.Fprintln(os.Stderr, "Usage: draftlock keyring <save|rm|status>")
		os.Exit(1)
	}
}

func runCompletion(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: draftlock completion <bash|zsh|fish>")
		os.Exit(1)
	}
	cmd.Completion(args[0])
}

func printUsage() {
	fmt.Println("draftlock - Passphrase-protected local draft storage")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  draftlock <command> [arguments]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  save        Encrypt and store a draft file")
	fmt.Println("  load        Decrypt and output the saved draft")
	fmt.Println("  update      Re-save a draft under the remembered passphrase")
	fmt.Println("  clear       Delete the saved draft")
	fmt.Println("  status      Show draft status (no passphrase required)")
	fmt.Println("  diff        Compare the saved draft with a local file")
	fmt.Println("  keyring     Manage the OS keyring passphrase entry")
	fmt.Println("  completion  Generate shell completions")
	fmt.Println("  help        Show help for a command")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  draftlock save draft.json       # Encrypt and store draft.json")
	fmt.Println("  draftlock load -o draft.json    # Restore the draft")
	fmt.Println("  draftlock status                # Check expiry without a passphrase")
	fmt.Println()
	fmt.Println("Use 'draftlock help <command>' for more information about a command.")
}

func printCommandHelp(command string) {
	switch command {
	case "save":
		fmt.Println("draftlock save <file>")
		fmt.Println()
		fmt.Println("Encrypts the file under a passphrase and stores it as the")
		fmt.Println("current draft, replacing any prior draft. The draft expires")
		fmt.Println("after the configured retention period (default 30 days).")
		fmt.Println()
		fmt.Println("The passphrase is prompted with confirmation, or taken from")
		fmt.Println("the DRAFTLOCK_PASSPHRASE environment variable.")
	case "load":
		fmt.Println("draftlock load [-o file]")
		fmt.Println()
		fmt.Println("Decrypts the saved draft and writes it to stdout, or to a")
		fmt.Println("file with -o. A draft past its retention window is deleted")
		fmt.Println("and reported as expired. A wrong passphrase leaves the")
		fmt.Println("draft in place so you can retry.")
		fmt.Println()
		fmt.Println("Drafts saved by old releases in the flat-file format are")
		fmt.Println("migrated to the current format on first successful load.")
	case "update":
		fmt.Println("draftlock update <file>")
		fmt.Println()
		fmt.Println("Re-saves the draft using the passphrase remembered in the")
		fmt.Println("OS keyring, falling back to a prompt. Every update re-seals")
		fmt.Println("the draft with a fresh salt and nonce.")
	case "clear":
		fmt.Println("draftlock clear [--force]")
		fmt.Println()
		fmt.Println("Deletes the saved draft. Safe to run when nothing is stored.")
	case "status":
		fmt.Println("draftlock status")
		fmt.Println()
		fmt.Println("Shows whether a draft is stored and how many days remain")
		fmt.Println("before it expires. Does not require a passphrase.")
	case "diff":
		fmt.Println("draftlock diff <file>")
		fmt.Println()
		fmt.Println("Shows a unified diff between the saved draft and a local file.")
	case "keyring":
		fmt.Println("draftlock keyring <save|rm|status>")
		fmt.Println()
		fmt.Println("Stores, removes or checks the passphrase in the OS keyring.")
	case "completion":
		fmt.Println("draftlock completion <bash|zsh|fish>")
		fmt.Println()
		fmt.Println("Outputs a shell completion script for the specified shell.")
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
	}
}
