//go:build mage

// Build targets for surfaceiso.
//
//	mage build   Compile the surfaceiso binary to bin/
//	mage test    Run all tests
//	mage vet     Run go vet
//	mage check   Vet and test
//	mage clean   Remove build artifacts
package main

import (
	"os"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	binGo      = "go"
	binaryName = "surfaceiso"
	binaryDir  = "bin"
	cmdDir     = "./cmd/surfaceiso"
)

var Default = Build

// Build compiles the surfaceiso binary to bin/.
func Build() error {
	if err := os.MkdirAll(binaryDir, 0o755); err != nil {
		return err
	}
	return sh.RunV(binGo, "build", "-v", "-o", filepath.Join(binaryDir, binaryName), cmdDir)
}

func Test() error {
	return sh.RunV(binGo, "test", "./...")
}

func Vet() error {
	return sh.RunV(binGo, "vet", "./...")
}

// Check runs vet, then the tests.
func Check() {
	mg.SerialDeps(Vet, Test)
}

func Clean() error {
	return os.RemoveAll(binaryDir)
}
