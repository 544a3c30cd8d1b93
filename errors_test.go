package cwelookup_test

import (
	"errors"
	"os"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/securego/cwelookup"
)

var _ = Describe("Errors", func() {
	It("should format status errors like the reference output", func() {
		Expect((&cwelookup.StatusError{StatusCode: 403}).Error()).To(Equal("Bad Request - 403"))
	})

	It("should unwrap credential load errors", func() {
		err := error(&cwelookup.CredentialLoadError{Name: "GitHub token", Path: "/missing", Err: os.ErrNotExist})
		Expect(errors.Is(err, os.ErrNotExist)).To(BeTrue())
		Expect(err.Error()).To(ContainSubstring("GitHub token"))
		Expect(err.Error()).To(ContainSubstring("/missing"))
	})

	It("should unwrap snapshot load errors", func() {
		err := error(&cwelookup.SnapshotLoadError{Path: "nvd.json", Err: os.ErrPermission})
		Expect(errors.Is(err, os.ErrPermission)).To(BeTrue())
		Expect(err.Error()).To(HavePrefix(`loading snapshot "nvd.json"`))
		Expect((&cwelookup.SnapshotLoadError{Err: os.ErrClosed}).Error()).To(HavePrefix("loading snapshot: "))
	})
})
