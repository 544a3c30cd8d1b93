package cwelookup_test

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"

	"github.com/securego/cwelookup"
	"github.com/securego/cwelookup/ghsa"
	"github.com/securego/cwelookup/nvd"
	"github.com/securego/cwelookup/snapshot"
	"github.com/securego/cwelookup/testutils"
)

type stubResolver struct {
	name    string
	results map[string]cwelookup.Result
	delay   time.Duration

	mu    sync.Mutex
	calls []string
}

func (s *stubResolver) Name() string { return s.name }

func (s *stubResolver) Resolve(_ context.Context, key string) cwelookup.Result {
	s.mu.Lock()
	s.calls = append(s.calls, key)
	s.mu.Unlock()
	if s.delay > 0 {
		time.Sleep(s.delay)
	}
	if r, ok := s.results[key]; ok {
		return r
	}
	return cwelookup.Missing()
}

func (s *stubResolver) Calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.calls...)
}

var _ = Describe("Engine", func() {
	var (
		config   *cwelookup.Config
		cves     *stubResolver
		direct   *stubResolver
		advisory *stubResolver
		engine   *cwelookup.Engine
	)

	BeforeEach(func() {
		config = cwelookup.NewConfig()
		cves = &stubResolver{name: "snapshot", results: map[string]cwelookup.Result{
			"CVE-2021-44228": cwelookup.Resolved("CWE-502"),
			"CVE-2020-0001":  cwelookup.Unknown(),
		}}
		direct = &stubResolver{name: "nvd", results: map[string]cwelookup.Result{
			"CVE-2021-44228": cwelookup.Resolved("CWE-917"),
			"CVE-2022-0001":  cwelookup.Failed(&cwelookup.StatusError{StatusCode: 404}),
		}}
		advisory = &stubResolver{name: "ghsa", results: map[string]cwelookup.Result{
			"GHSA-xxxx-yyyy-zzzz": cwelookup.Resolved("CWE-79"),
			"GHSA-jfh8-c2jp-5v3q": cwelookup.Resolved("CWE-502", "CWE-400"),
		}}
	})

	JustBeforeEach(func() {
		engine = cwelookup.NewEngine(config, cwelookup.Sources{Snapshot: cves, Direct: direct, Advisory: advisory}, nil)
	})

	It("should keep input order and flatten results", func() {
		batch, err := engine.ResolveBatch(context.Background(), []string{
			"GHSA-jfh8-c2jp-5v3q", "CVE-1999-0001", "CVE-2021-44228-1", "CVE-2020-0001",
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(batch.Results).To(HaveLen(4))
		Expect(batch.Values()).To(Equal([]string{"CWE-502", "CWE-400", "CWE-502", "CWE-unknown"}))

		Expect(batch.Results[1].Status).To(Equal(cwelookup.StatusMissing))
		Expect(batch.Results[2].ID).To(Equal("CVE-2021-44228-1"))
		Expect(batch.Results[2].Key).To(Equal("CVE-2021-44228"))
		Expect(batch.Results[2].Source).To(Equal("snapshot"))
		Expect(batch.Results[0].Kind).To(Equal(cwelookup.KindAdvisory))
		Expect(batch.Mode).To(Equal(cwelookup.ModeSnapshot))
		Expect(batch.RunID).NotTo(BeEmpty())
		Expect(*batch.Stats).To(Equal(cwelookup.Stats{
			Identifiers: 4, Entries: 4, Resolved: 2, Unknown: 1, Missing: 1,
		}))
	})

	It("should dispatch advisories to the advisory source in every mode", func() {
		_, err := engine.ResolveBatch(context.Background(), []string{"GHSA-xxxx-yyyy-zzzz-extra"})
		Expect(err).NotTo(HaveOccurred())
		Expect(advisory.Calls()).To(Equal([]string{"GHSA-xxxx-yyyy-zzzz"}))
		Expect(cves.Calls()).To(BeEmpty())
	})

	It("should resolve repeated keys once per batch", func() {
		batch, err := engine.ResolveBatch(context.Background(), []string{
			"CVE-2021-44228", "CVE-2021-44228-a", "CVE-2021-44228",
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(batch.Values()).To(Equal([]string{"CWE-502", "CWE-502", "CWE-502"}))
		Expect(cves.Calls()).To(Equal([]string{"CVE-2021-44228"}))

		_, err = engine.ResolveBatch(context.Background(), []string{"CVE-2021-44228"})
		Expect(err).NotTo(HaveOccurred())
		Expect(cves.Calls()).To(HaveLen(2))
	})

	It("should return an empty batch for empty input", func() {
		batch, err := engine.ResolveBatch(context.Background(), nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(batch.Values()).To(BeEmpty())
		Expect(batch.Stats.Identifiers).To(BeZero())
	})

	Context("in direct mode", func() {
		BeforeEach(func() {
			config.Mode = cwelookup.ModeDirect
		})

		It("should query the direct source and keep failures in place", func() {
			batch, err := engine.ResolveBatch(context.Background(), []string{
				"CVE-2022-0001", "CVE-2021-44228", "GHSA-xxxx-yyyy-zzzz",
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(batch.Values()).To(Equal([]string{"Bad Request - 404", "CWE-917", "CWE-79"}))
			Expect(batch.Stats.Failed).To(Equal(1))
			Expect(cves.Calls()).To(BeEmpty())
			Expect(batch.Mode).To(Equal(cwelookup.ModeDirect))
		})

		It("should report the mode it was built with", func() {
			Expect(engine.Mode()).To(Equal(cwelookup.ModeDirect))
		})
	})

	Context("when missing keys count as unknown", func() {
		BeforeEach(func() {
			config.MissingAsUnknown = true
		})

		It("should emit the sentinel for absent keys", func() {
			batch, err := engine.ResolveBatch(context.Background(), []string{"CVE-1999-0001"})
			Expect(err).NotTo(HaveOccurred())
			Expect(batch.Values()).To(Equal([]string{"CWE-unknown"}))
			Expect(batch.Results[0].Status).To(Equal(cwelookup.StatusUnknown))
		})
	})

	Context("when resolving concurrently", func() {
		BeforeEach(func() {
			config.Concurrency = 4
			cves.delay = 10 * time.Millisecond
		})

		It("should reconstruct input order", func() {
			ids := []string{"CVE-2021-44228", "CVE-2020-0001", "CVE-1999-0001", "GHSA-xxxx-yyyy-zzzz", "CVE-2020-0001-x"}
			batch, err := engine.ResolveBatch(context.Background(), ids)
			Expect(err).NotTo(HaveOccurred())
			for i, r := range batch.Results {
				Expect(r.ID).To(Equal(ids[i]))
			}
			Expect(batch.Values()).To(Equal([]string{"CWE-502", "CWE-unknown", "CWE-79", "CWE-unknown"}))
		})

		It("should resolve a repeated key once across workers", func() {
			config.Concurrency = 8
			cves.delay = 20 * time.Millisecond
			engine = cwelookup.NewEngine(config, cwelookup.Sources{Snapshot: cves}, nil)

			ids := make([]string, 64)
			for i := range ids {
				ids[i] = "CVE-2021-44228"
				if i%2 == 1 {
					ids[i] += "-variant"
				}
			}
			batch, err := engine.ResolveBatch(context.Background(), ids)
			Expect(err).NotTo(HaveOccurred())
			Expect(cves.Calls()).To(Equal([]string{"CVE-2021-44228"}))
			Expect(batch.Values()).To(HaveLen(64))
			for _, v := range batch.Values() {
				Expect(v).To(Equal("CWE-502"))
			}
		})

		It("should mark shared lookups as cached in the logs", func() {
			logger, logs := testutils.NewLogger()
			config.Concurrency = 4
			engine = cwelookup.NewEngine(config, cwelookup.Sources{Snapshot: cves}, logger)

			_, err := engine.ResolveBatch(context.Background(), []string{"CVE-2020-0001", "CVE-2020-0001", "CVE-2020-0001"})
			Expect(err).NotTo(HaveOccurred())
			Expect(cves.Calls()).To(HaveLen(1))

			done := logs.FilterMessage("lookup done")
			Expect(done.Len()).To(Equal(3))
			Expect(done.FilterField(zap.Bool("cached", false)).Len()).To(Equal(1))
			Expect(done.FilterField(zap.Bool("cached", true)).Len()).To(Equal(2))
		})
	})

	It("should refuse to run without a source for the selected mode", func() {
		engine = cwelookup.NewEngine(config, cwelookup.Sources{Advisory: advisory}, nil)
		_, err := engine.ResolveBatch(context.Background(), []string{"CVE-2021-44228"})
		Expect(errors.Is(err, cwelookup.ErrNoSource)).To(BeTrue())
		Expect(advisory.Calls()).To(BeEmpty())
	})

	It("should not need an advisory source for CVE only batches", func() {
		engine = cwelookup.NewEngine(config, cwelookup.Sources{Snapshot: cves}, nil)
		_, err := engine.ResolveBatch(context.Background(), []string{"CVE-2021-44228"})
		Expect(err).NotTo(HaveOccurred())
	})

	It("should stop on a cancelled context", func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := engine.ResolveBatch(ctx, []string{"CVE-2021-44228"})
		Expect(errors.Is(err, context.Canceled)).To(BeTrue())
	})

	It("should log failed lookups", func() {
		logger, logs := testutils.NewLogger()
		config.Mode = cwelookup.ModeDirect
		engine = cwelookup.NewEngine(config, cwelookup.Sources{Direct: direct}, logger)

		_, err := engine.ResolveBatch(context.Background(), []string{"CVE-2022-0001"})
		Expect(err).NotTo(HaveOccurred())
		Expect(logs.FilterMessage("lookup failed").Len()).To(Equal(1))
		Expect(logs.FilterMessage("batch resolved").Len()).To(Equal(1))
	})
})

var _ = Describe("End to end", func() {
	var (
		github *testutils.FakeGitHub
		engine *cwelookup.Engine
	)

	BeforeEach(func() {
		github = testutils.NewFakeGitHub("token", testutils.SampleAdvisories)
		DeferCleanup(github.Close)

		snap, err := snapshot.Parse(bytes.NewReader(testutils.SnapshotDocument(testutils.SampleSnapshot)))
		Expect(err).NotTo(HaveOccurred())

		engine = cwelookup.NewEngine(cwelookup.NewConfig(), cwelookup.Sources{
			Snapshot: snapshot.NewResolver(snap, nil),
			Advisory: ghsa.NewClient(ghsa.WithEndpoint(github.URL), ghsa.WithToken("token")),
		}, nil)
	})

	resolve := func(ids ...string) []string {
		batch, err := engine.ResolveBatch(context.Background(), ids)
		Expect(err).NotTo(HaveOccurred())
		return batch.Values()
	}

	It("should resolve a CVE from the snapshot", func() {
		Expect(resolve("CVE-2021-44228")).To(Equal([]string{"CWE-502"}))
	})

	It("should resolve a placeholder to unknown", func() {
		Expect(resolve("CVE-2020-0001")).To(Equal([]string{"CWE-unknown"}))
	})

	It("should resolve an advisory through GraphQL", func() {
		Expect(resolve("GHSA-xxxx-yyyy-zzzz")).To(Equal([]string{"CWE-79"}))
	})

	It("should normalize before looking up", func() {
		batch, err := engine.ResolveBatch(context.Background(), []string{"CVE-2020-0001-EXTRA-SUFFIX"})
		Expect(err).NotTo(HaveOccurred())
		Expect(batch.Results[0].Key).To(Equal("CVE-2020-0001"))
		Expect(batch.Values()).To(Equal([]string{"CWE-unknown"}))
	})

	It("should resolve a mixed batch in order", func() {
		Expect(resolve("CVE-2014-0160", "GHSA-0000-0000-0000", "CVE-2019-0001", "CVE-1999-0001", "GHSA-jfh8-c2jp-5v3q")).
			To(Equal([]string{"CWE-125", "CWE-unknown", "CWE-unknown", "CWE-502"}))
	})
})

var _ = Describe("End to end in direct mode", func() {
	It("should query the NVD for each CVE", func() {
		fake := testutils.NewFakeNVD(testutils.SampleSnapshot, map[string]int{"CVE-2023-0404": 404})
		DeferCleanup(fake.Close)

		config := cwelookup.NewConfig()
		config.Mode = cwelookup.ModeDirect
		engine := cwelookup.NewEngine(config, cwelookup.Sources{
			Direct: nvd.NewClient(nvd.WithBaseURL(fake.APIURL()), nvd.WithAPIKey("k")),
		}, nil)

		batch, err := engine.ResolveBatch(context.Background(), []string{"CVE-2021-44228", "CVE-2023-0404", "CVE-1999-0001"})
		Expect(err).NotTo(HaveOccurred())
		Expect(batch.Values()).To(Equal([]string{"CWE-502", "Bad Request - 404", "CWE-unknown"}))
		Expect(fake.Queried()).To(Equal([]string{"CVE-2021-44228", "CVE-2023-0404", "CVE-1999-0001"}))
		Expect(fake.APIKeys()).To(Equal([]string{"k", "k", "k"}))
	})
})
