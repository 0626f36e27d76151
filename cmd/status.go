package cmd

import (
	"fmt"
)

// Status shows whether a draft is stored and how long it remains
// loadable. Requires no passphrase.
func Status() {
	m := OpenManager()
	defer m.Close()

	has, err := m.HasStoredData()
	if err != nil {
		HandleError(err)
	}

	if !has {
		fmt.Println("No saved draft")
		fmt.Printf("Retention policy: %d days\n", m.RetentionDays())
		return
	}

	fmt.Println("Saved draft: present")
	if days, ok, err := m.RemainingDays(); err == nil && ok {
		fmt.Printf("Expires in: %d days\n", days)
	}
	fmt.Printf("Retention policy: %d days\n", m.RetentionDays())
	fmt.Println("Encryption: AES-256-GCM, PBKDF2-HMAC-SHA256")
}
