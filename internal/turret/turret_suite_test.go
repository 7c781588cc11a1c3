package turret

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestTurretSuite(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Turret Suite")
}
