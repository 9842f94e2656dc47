package venv

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// receiptFileName is the marker file written into a freshly built package
// environment. Its presence records what the environment was built from so
// a skipped rebuild can report what is being reused.
const receiptFileName = "build-receipt.yml"

// Receipt describes the contents of a package environment: which wheel it
// was built from, with which requirement files, and when.
type Receipt struct {
	// WheelFile is the base name of the installed wheel.
	WheelFile string `yaml:"wheelFile"`

	// PackageName is the distribution name from the wheel metadata.
	PackageName string `yaml:"packageName"`

	// PackageVersion is the distribution version from the wheel metadata.
	PackageVersion string `yaml:"packageVersion"`

	// Requirements lists the extra requirement files installed alongside
	// the wheel, in the order they were passed.
	Requirements []string `yaml:"requirements,omitempty"`

	// CreatedAt is when the environment finished building (UTC).
	CreatedAt time.Time `yaml:"createdAt"`
}

// WriteReceipt serializes the receipt into the package environment.
// Failing to write the receipt does not fail the build; the file is
// informational and the rebuild decision never depends on it alone.
func WriteReceipt(packageEnv string, r Receipt) error {
	data, err := yaml.Marshal(&r)
	if err != nil {
		return fmt.Errorf("failed to serialize build receipt: %w", err)
	}
	path := filepath.Join(packageEnv, receiptFileName)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write build receipt %s: %w", path, err)
	}
	return nil
}

// ReadReceipt loads the receipt from a package environment. Returns an
// error when the file is missing or malformed; callers treat both as
// "unknown provenance" and continue.
func ReadReceipt(packageEnv string) (Receipt, error) {
	data, err := os.ReadFile(filepath.Join(packageEnv, receiptFileName))
	if err != nil {
		return Receipt{}, err
	}
	var r Receipt
	if err := yaml.Unmarshal(data, &r); err != nil {
		return Receipt{}, fmt.Errorf("failed to parse build receipt in %s: %w", packageEnv, err)
	}
	return r, nil
}
