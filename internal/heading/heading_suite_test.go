package heading

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestHeadingSuite(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Heading Suite")
}
