package sources_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/securego/cwelookup"
	"github.com/securego/cwelookup/ghsa"
	"github.com/securego/cwelookup/internal/sources"
	"github.com/securego/cwelookup/nvd"
	"github.com/securego/cwelookup/snapshot"
	"github.com/securego/cwelookup/testutils"
)

var _ = Describe("Sources", func() {
	var (
		dir    string
		config *cwelookup.Config
	)

	writeFile := func(name, content string) string {
		path := filepath.Join(dir, name)
		Expect(os.WriteFile(path, []byte(content), 0o600)).To(Succeed())
		return path
	}

	BeforeEach(func() {
		var err error
		dir, err = os.MkdirTemp("", "cwelookup-sources")
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(os.RemoveAll, dir)
		config = cwelookup.NewConfig()
	})

	Context("in snapshot mode", func() {
		It("should load the snapshot and the advisory client", func() {
			path, err := testutils.WriteSnapshot(dir, testutils.SampleSnapshot)
			Expect(err).NotTo(HaveOccurred())
			config.SnapshotPath = path

			srcs, err := sources.FromConfig(config, nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(srcs.Snapshot).To(BeAssignableToTypeOf(&snapshot.Resolver{}))
			Expect(srcs.Advisory).To(BeAssignableToTypeOf(&ghsa.Client{}))
			Expect(srcs.Direct).To(BeNil())

			result := srcs.Snapshot.Resolve(context.Background(), "CVE-2021-44228")
			Expect(result.Values()).To(Equal([]string{"CWE-502"}))
		})

		It("should fail on a missing snapshot", func() {
			config.SnapshotPath = filepath.Join(dir, "absent.json")
			_, err := sources.FromConfig(config, nil)

			var loadErr *cwelookup.SnapshotLoadError
			Expect(errors.As(err, &loadErr)).To(BeTrue())
			Expect(loadErr.Path).To(Equal(config.SnapshotPath))
			Expect(errors.Is(err, os.ErrNotExist)).To(BeTrue())
		})

		It("should fail on a malformed snapshot", func() {
			config.SnapshotPath = writeFile("broken.json", "{not json")
			_, err := sources.FromConfig(config, nil)

			var loadErr *cwelookup.SnapshotLoadError
			Expect(errors.As(err, &loadErr)).To(BeTrue())
		})
	})

	Context("in direct mode", func() {
		BeforeEach(func() {
			config.Mode = cwelookup.ModeDirect
		})

		It("should build the NVD client with the key from a file", func() {
			fake := testutils.NewFakeNVD(testutils.SampleSnapshot, nil)
			DeferCleanup(fake.Close)
			config.NVDURL = fake.APIURL()
			config.NVDAPIKey = writeFile("nvd.key", "file-key\nignored\n")

			srcs, err := sources.FromConfig(config, nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(srcs.Snapshot).To(BeNil())
			Expect(srcs.Direct).To(BeAssignableToTypeOf(&nvd.Client{}))

			result := srcs.Direct.Resolve(context.Background(), "CVE-2014-0160")
			Expect(result.Values()).To(Equal([]string{"CWE-125"}))
			Expect(fake.APIKeys()).To(Equal([]string{"file-key"}))
			Expect(fake.UserAgents()).To(Equal([]string{"cwelookup"}))
		})

		It("should accept a literal key", func() {
			key, err := sources.NVDAPIKey("literal-key")
			Expect(err).NotTo(HaveOccurred())
			Expect(key).To(Equal("literal-key"))
		})

		It("should reject an empty key file", func() {
			config.NVDAPIKey = writeFile("empty.key", "\n")
			_, err := sources.FromConfig(config, nil)

			var credErr *cwelookup.CredentialLoadError
			Expect(errors.As(err, &credErr)).To(BeTrue())
			Expect(credErr.Name).To(Equal("NVD API key"))
			Expect(errors.Is(err, sources.ErrEmptyCredential)).To(BeTrue())
		})
	})

	Context("with a GitHub token file", func() {
		It("should read the first line", func() {
			token, err := sources.GitHubToken(writeFile("token", "  ghp_abc  \nsecond\n"))
			Expect(err).NotTo(HaveOccurred())
			Expect(token).To(Equal("ghp_abc"))
		})

		It("should send the token to GitHub", func() {
			github := testutils.NewFakeGitHub("ghp_abc", testutils.SampleAdvisories)
			DeferCleanup(github.Close)

			path, err := testutils.WriteSnapshot(dir, testutils.SampleSnapshot)
			Expect(err).NotTo(HaveOccurred())
			config.SnapshotPath = path
			config.GitHubURL = github.URL
			config.GitHubTokenFile = writeFile("token", "ghp_abc\n")

			srcs, err := sources.FromConfig(config, nil)
			Expect(err).NotTo(HaveOccurred())
			result := srcs.Advisory.Resolve(context.Background(), "GHSA-xxxx-yyyy-zzzz")
			Expect(result.Values()).To(Equal([]string{"CWE-79"}))
			Expect(github.Authorizations()).To(Equal([]string{"token ghp_abc"}))
		})

		It("should fail before loading anything else when the file is missing", func() {
			config.GitHubTokenFile = filepath.Join(dir, "absent")
			_, err := sources.FromConfig(config, nil)

			var credErr *cwelookup.CredentialLoadError
			Expect(errors.As(err, &credErr)).To(BeTrue())
			Expect(credErr.Name).To(Equal("GitHub token"))
		})

		It("should treat an empty path as no token", func() {
			token, err := sources.GitHubToken("")
			Expect(err).NotTo(HaveOccurred())
			Expect(token).To(BeEmpty())
		})
	})
})
