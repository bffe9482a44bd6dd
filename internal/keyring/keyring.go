package keyring

import (
	"os"

	zkr "github.com/zalando/go-keyring"
)

const (
	serviceName = "nova"
	accountName = "vision-api-key"
)

// GetVisionKey retrieves the stored vision API key from the OS keychain.
func GetVisionKey() (string, error) {
	return zkr.Get(serviceName, accountName)
}

// SetVisionKey stores the vision API key in the OS keychain.
func SetVisionKey(key string) error {
	return zkr.Set(serviceName, accountName, key)
}

// DeleteVisionKey removes the vision API key from the OS keychain.
func DeleteVisionKey() error {
	return zkr.Delete(serviceName, accountName)
}

// Available returns true if the OS keychain is functional.
// Returns false if NOVA_KEYRING_DISABLED=1 is set (for headless/CI/Docker).
// Otherwise probes the keychain with a test write/delete cycle.
func Available() bool {
	if os.Getenv("NOVA_KEYRING_DISABLED") == "1" {
		return false
	}
	testService := "nova-keyring-probe"
	testAccount := "probe"
	if err := zkr.Set(testService, testAccount, "ok"); err != nil {
		return false
	}
	_ = zkr.Delete(testService, testAccount)
	return true
}
