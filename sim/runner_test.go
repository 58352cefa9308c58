package sim_test

import (
	"bytes"
	"errors"
	"log/slog"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"

	"github.com/sarchlab/cachemap/address"
	"github.com/sarchlab/cachemap/cache"
	"github.com/sarchlab/cachemap/config"
	"github.com/sarchlab/cachemap/sim"
)

func geometry(assoc int) config.Config {
	return config.Config{CacheSize: 16, MemorySize: 256, BlockSize: 4, Associativity: assoc}
}

var _ = Describe("Run", func() {
	Describe("direct mapped scenario", func() {
		var result *sim.Result

		BeforeEach(func() {
			var err error
			result, err = sim.Run(geometry(1), []int64{0, 4, 8, 12, 16})
			Expect(err).NotTo(HaveOccurred())
		})

		It("should report the bit layout", func() {
			Expect(result.Layout.TagBits).To(Equal(4))
			Expect(result.Layout.IndexBits).To(Equal(2))
			Expect(result.Layout.OffsetBits).To(Equal(2))
		})

		It("should map the references to indices 0,1,2,3,0", func() {
			indices := []int{}
			for _, e := range result.Trace {
				indices = append(indices, e.Fields.Index)
			}
			Expect(indices).To(Equal([]int{0, 1, 2, 3, 0}))
		})

		It("should miss every reference and evict once", func() {
			Expect(result.Verdicts()).To(HaveEach(cache.Miss))
			Expect(result.Misses).To(Equal(5))
			Expect(result.Hits).To(Equal(0))
			Expect(result.Evictions).To(Equal(1))
			Expect(result.Trace[4].Evicted).To(BeTrue())
		})

		It("should capture an empty before snapshot and a filled after snapshot", func() {
			Expect(result.Before.Occupied()).To(Equal(0))
			Expect(result.After.Lines()).To(Equal([]string{
				"Cache Line 0: 0x1",
				"Cache Line 1: 0x0",
				"Cache Line 2: 0x0",
				"Cache Line 3: 0x0",
			}))
		})

		It("should render 32-bit binary trace lines", func() {
			Expect(result.TraceLines()[4]).To(Equal("00000000000000000000000000010000 - Miss"))
		})
	})

	Describe("2-way LRU scenario", func() {
		It("should evict the line for address 0", func() {
			result, err := sim.Run(geometry(2), []int64{0, 16, 32})
			Expect(err).NotTo(HaveOccurred())

			Expect(result.Verdicts()).To(Equal([]cache.Verdict{cache.Miss, cache.Miss, cache.Miss}))
			Expect(result.Evictions).To(Equal(1))
			Expect(result.Trace[2].Evicted).To(BeTrue())
			Expect(result.Trace[2].EvictedTag).To(Equal(uint64(0)))
			Expect(result.After.Lines()[0]).To(Equal("Set 0: [0x4, 0x2]"))
		})
	})

	DescribeTable("hit confirmation",
		func(assoc int) {
			result, err := sim.Run(geometry(assoc), []int64{0, 0})
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Verdicts()).To(Equal([]cache.Verdict{cache.Miss, cache.Hit}))
			Expect(result.Evictions).To(Equal(0))
			Expect(result.HitRate()).To(Equal(0.5))
		},
		Entry("direct mapped", 1),
		Entry("2-way", 2),
	)

	DescribeTable("counter invariants",
		func(assoc int) {
			refs := []int64{}
			for i := int64(0); i < 64; i++ {
				refs = append(refs, (i*37)%256)
			}

			result, err := sim.Run(geometry(assoc), refs)
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Hits + result.Misses).To(Equal(len(refs)))
			Expect(result.Accesses()).To(Equal(len(refs)))
			Expect(result.Evictions).To(BeNumerically("<=", result.Misses))
			Expect(result.Trace).To(HaveLen(len(refs)))
		},
		Entry("direct mapped", 1),
		Entry("2-way", 2),
	)

	It("should render the summary", func() {
		result, err := sim.Run(geometry(1), []int64{0, 0, 16})
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Summary()).To(Equal("Hits: 1\nMisses: 2\nEvictions: 1"))
		Expect(result.Report()).To(ContainSubstring("Before Cache Fill:\nCache Line 0: Empty"))
		Expect(result.Report()).To(ContainSubstring("After Cache Fill:\nCache Line 0: 0x1"))
		Expect(result.Report()).To(ContainSubstring("Tag bits: 4"))
	})

	Describe("errors", func() {
		It("should reject an invalid configuration", func() {
			cfg := geometry(1)
			cfg.BlockSize = 6

			result, err := sim.Run(cfg, []int64{0})
			Expect(result).To(BeNil())

			var cfgErr *config.ConfigurationError
			Expect(errors.As(err, &cfgErr)).To(BeTrue())
			Expect(cfgErr.Field).To(Equal("block_size"))
		})

		It("should reject an empty reference list", func() {
			_, err := sim.Run(geometry(1), nil)
			Expect(errors.Is(err, sim.ErrNoReferences)).To(BeTrue())
			Expect(err).To(MatchError("reference list is empty"))
		})

		It("should reject a negative address", func() {
			_, err := sim.Run(geometry(1), []int64{0, -4})

			var refErr *sim.ReferenceError
			Expect(errors.As(err, &refErr)).To(BeTrue())
			Expect(refErr.Position).To(Equal(1))
			Expect(refErr.Address).To(Equal(int64(-4)))
			Expect(errors.Is(err, sim.ErrNegativeAddress)).To(BeTrue())
		})

		It("should reject an address at the memory size", func() {
			_, err := sim.Run(geometry(2), []int64{0, 4, 256})
			Expect(errors.Is(err, sim.ErrAddressOutOfRange)).To(BeTrue())
			Expect(err).To(MatchError(ContainSubstring("reference 2 (address 256)")))
		})
	})
})

var _ = Describe("Runner", func() {
	var mockCtrl *gomock.Controller

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should replay references in order and collect verdicts", func() {
		model := NewMockModel(mockCtrl)
		empty := cache.Snapshot{Associativity: 1}
		filled := cache.Snapshot{
			Associativity: 1,
			Sets:          [][]cache.Line{{{Tag: 1, IsValid: true}}},
		}

		gomock.InOrder(
			model.EXPECT().Snapshot().Return(empty),
			model.EXPECT().Access(uint64(8)).Return(cache.AccessResult{Verdict: cache.Miss}),
			model.EXPECT().Access(uint64(8)).Return(cache.AccessResult{Verdict: cache.Hit}),
			model.EXPECT().Access(uint64(40)).Return(cache.AccessResult{
				Verdict:    cache.Miss,
				Evicted:    true,
				EvictedTag: 0,
				Fields:     address.Fields{Tag: 1},
			}),
			model.EXPECT().Snapshot().Return(filled),
		)

		runner := sim.NewRunner(sim.WithModelBuilder(
			func(config.Config) (cache.Model, error) { return model, nil }))

		result, err := runner.Run(geometry(1), []int64{8, 8, 40})
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Hits).To(Equal(1))
		Expect(result.Misses).To(Equal(2))
		Expect(result.Evictions).To(Equal(1))
		Expect(result.Before).To(Equal(empty))
		Expect(result.After).To(Equal(filled))
	})

	It("should not build a model when a reference is invalid", func() {
		runner := sim.NewRunner(sim.WithModelBuilder(
			func(config.Config) (cache.Model, error) {
				Fail("model must not be built")
				return nil, nil
			}))

		_, err := runner.Run(geometry(1), []int64{0, 999})
		Expect(err).To(HaveOccurred())
	})

	It("should surface model construction errors", func() {
		boom := errors.New("boom")
		runner := sim.NewRunner(sim.WithModelBuilder(
			func(config.Config) (cache.Model, error) { return nil, boom }))

		_, err := runner.Run(geometry(1), []int64{0})
		Expect(err).To(MatchError(boom))
	})

	It("should produce identical results with the directory models", func() {
		refs := []int64{0, 16, 32, 0, 4, 20, 36, 4, 255, 128, 0}
		for _, assoc := range []int{1, 2} {
			native, err := sim.Run(geometry(assoc), refs)
			Expect(err).NotTo(HaveOccurred())

			akita, err := sim.NewRunner(sim.WithModelBuilder(sim.DirectoryModelBuilder)).
				Run(geometry(assoc), refs)
			Expect(err).NotTo(HaveOccurred())

			Expect(akita).To(Equal(native))
		}
	})

	It("should log each access at debug level", func() {
		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

		_, err := sim.NewRunner(sim.WithLogger(logger)).Run(geometry(1), []int64{0, 0})
		Expect(err).NotTo(HaveOccurred())
		Expect(buf.String()).To(ContainSubstring("msg=access"))
		Expect(buf.String()).To(ContainSubstring("verdict=Hit"))
		Expect(buf.String()).To(ContainSubstring("msg=\"run complete\""))
	})

	It("should stay silent when given a nil logger", func() {
		result, err := sim.NewRunner(sim.WithLogger(nil)).Run(geometry(1), []int64{0, 0})
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Hits).To(Equal(1))
	})
})
