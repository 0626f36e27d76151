package cmd

import (
	"fmt"
)

// Clear deletes the saved draft unconditionally
func Clear(force bool) {
	m := OpenManager()
	defer m.Close()

	has, err := m.HasStoredData()
	if err != nil {
		HandleError(err)
	}

	if has && !force {
		if !Confirm("Delete the saved draft? This cannot be undone [y/N]: ") {
			fmt.Println("aborted")
			return
		}
	}

	if err := m.Clear(); err != nil {
		HandleError(err)
	}

	if has {
		fmt.Println("cleared: saved draft removed")
	} else {
		fmt.Println("cleared: nothing was stored")
	}
}
