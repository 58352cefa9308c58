package config_test

import (
	"errors"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/cachemap/config"
)

var _ = Describe("Config", func() {
	Describe("Default", func() {
		It("should match the interactive tool's starting values", func() {
			c := config.Default()
			Expect(c.CacheSize).To(Equal(16))
			Expect(c.MemorySize).To(Equal(256))
			Expect(c.BlockSize).To(Equal(4))
			Expect(c.Associativity).To(Equal(config.DirectMapped))
			Expect(c.Validate()).To(Succeed())
			Expect(c.NumSets()).To(Equal(4))
		})
	})

	Describe("Validate", func() {
		var c *config.Config

		BeforeEach(func() {
			c = config.Default()
		})

		expectViolation := func(field string, value int, sentinel error) {
			err := c.Validate()
			Expect(err).To(HaveOccurred())
			Expect(errors.Is(err, sentinel)).To(BeTrue())

			var cfgErr *config.ConfigurationError
			Expect(errors.As(err, &cfgErr)).To(BeTrue())
			Expect(cfgErr.Field).To(Equal(field))
			Expect(cfgErr.Value).To(Equal(value))
		}

		It("should reject a cache size that is not a power of two", func() {
			c.CacheSize = 24
			expectViolation("cache_size", 24, config.ErrNotPowerOfTwo)
		})

		It("should reject a zero memory size", func() {
			c.MemorySize = 0
			expectViolation("memory_size", 0, config.ErrNotPowerOfTwo)
		})

		It("should reject a negative block size", func() {
			c.BlockSize = -4
			expectViolation("block_size", -4, config.ErrNotPowerOfTwo)
		})

		It("should reject unsupported associativity", func() {
			c.Associativity = 4
			expectViolation("associativity", 4, config.ErrUnsupportedAssociativity)
		})

		It("should reject a block larger than the cache", func() {
			c.BlockSize = 32
			expectViolation("block_size", 32, config.ErrBlockLargerThanCache)
		})

		It("should reject a cache larger than memory", func() {
			c.CacheSize = 512
			expectViolation("cache_size", 512, config.ErrCacheLargerThanMemory)
		})

		It("should reject a 2-way cache holding a single block", func() {
			c.CacheSize = 4
			c.Associativity = config.TwoWaySetAssociative
			expectViolation("cache_size", 4, config.ErrNotDivisible)
		})

		It("should accept a 2-way cache", func() {
			c.Associativity = config.TwoWaySetAssociative
			Expect(c.Validate()).To(Succeed())
			Expect(c.NumSets()).To(Equal(2))
		})

		It("should include the field and value in the message", func() {
			c.CacheSize = 24
			Expect(c.Validate()).To(MatchError(ContainSubstring("invalid cache_size 24")))
		})
	})

	Describe("ParseMapping", func() {
		DescribeTable("selector strings",
			func(input string, expected int) {
				assoc, err := config.ParseMapping(input)
				Expect(err).NotTo(HaveOccurred())
				Expect(assoc).To(Equal(expected))
			},
			Entry("combobox direct label", "Direct Mapping", 1),
			Entry("short direct", "direct", 1),
			Entry("dm", " DM ", 1),
			Entry("combobox 2-way label", "2-Way Set Associative", 2),
			Entry("short 2-way", "2way", 2),
			Entry("numeric", "2", 2),
		)

		It("should reject unknown selectors", func() {
			_, err := config.ParseMapping("fully associative")
			Expect(err).To(MatchError(ContainSubstring("unknown cache mapping")))
		})
	})

	Describe("MappingName", func() {
		It("should name both mappings the way the front end does", func() {
			c := config.Default()
			Expect(c.MappingName()).To(Equal("Direct Mapping"))
			c.Associativity = 2
			Expect(c.MappingName()).To(Equal("2-Way Set Associative"))
		})
	})

	Describe("Clone", func() {
		It("should return an independent copy", func() {
			c := config.Default()
			clone := c.Clone()
			clone.CacheSize = 64
			Expect(c.CacheSize).To(Equal(16))
			Expect(clone.MemorySize).To(Equal(c.MemorySize))
		})
	})

	Describe("LoadConfig and SaveConfig", func() {
		var dir string

		BeforeEach(func() {
			dir = GinkgoT().TempDir()
		})

		It("should round-trip a configuration file", func() {
			path := filepath.Join(dir, "cache.json")
			c := &config.Config{
				CacheSize: 64, MemorySize: 1024, BlockSize: 8, Associativity: 2,
			}
			Expect(c.SaveConfig(path)).To(Succeed())

			loaded, err := config.LoadConfig(path)
			Expect(err).NotTo(HaveOccurred())
			Expect(*loaded).To(Equal(*c))
		})

		It("should keep defaults for fields missing from the file", func() {
			path := filepath.Join(dir, "partial.json")
			Expect(os.WriteFile(path, []byte(`{"cache_size": 32}`), 0644)).To(Succeed())

			loaded, err := config.LoadConfig(path)
			Expect(err).NotTo(HaveOccurred())
			Expect(loaded.CacheSize).To(Equal(32))
			Expect(loaded.MemorySize).To(Equal(256))
			Expect(loaded.BlockSize).To(Equal(4))
		})

		It("should fail on a missing file", func() {
			_, err := config.LoadConfig(filepath.Join(dir, "nope.json"))
			Expect(err).To(MatchError(ContainSubstring("failed to read cache config file")))
		})

		It("should fail on malformed JSON", func() {
			path := filepath.Join(dir, "bad.json")
			Expect(os.WriteFile(path, []byte("{"), 0644)).To(Succeed())
			_, err := config.LoadConfig(path)
			Expect(err).To(MatchError(ContainSubstring("failed to parse cache config")))
		})
	})

	Describe("Log2", func() {
		It("should return the exponent of a power of two", func() {
			Expect(config.Log2(1)).To(Equal(0))
			Expect(config.Log2(256)).To(Equal(8))
			Expect(config.IsPowerOfTwo(96)).To(BeFalse())
		})
	})
})
