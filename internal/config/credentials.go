package config

import (
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"
)

const keyringService = "omnidb"

// StorePassword saves a profile's password in the OS keyring.
func StorePassword(name, password string) error {
	if err := keyring.Set(keyringService, name, password); err != nil {
		return fmt.Errorf("store password for %s: %w", name, err)
	}
	return nil
}

// DeletePassword removes a profile's password from the OS keyring.
// A missing entry is not an error.
func DeletePassword(name string) error {
	err := keyring.Delete(keyringService, name)
	if err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("delete password for %s: %w", name, err)
	}
	return nil
}

// ResolvePassword fills conn.Password from the keyring when the profile
// does not carry one. Profiles without a stored password are returned as is.
func ResolvePassword(conn Connection) (Connection, error) {
	if conn.Password != "" {
		return conn, nil
	}
	password, err := keyring.Get(keyringService, conn.Name)
	switch {
	case errors.Is(err, keyring.ErrNotFound):
		return conn, nil
	case err != nil:
		return conn, fmt.Errorf("read password for %s: %w", conn.Name, err)
	}
	conn.Password = password
	return conn, nil
}
