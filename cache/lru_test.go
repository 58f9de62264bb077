package cache_test

import (
	"bytes"
	"fmt"
	"sync"

	"github.com/icecave/forager/cache"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/ginkgo/extensions/table"
	. "github.com/onsi/gomega"
)

func body(n int) []byte {
	return bytes.Repeat([]byte{'x'}, n)
}

func insert(c *cache.LRU, key string, n int) {
	c.Insert(key, body(n), int64(n))
}

var _ = Describe("LRU", func() {
	var subject *cache.LRU

	BeforeEach(func() {
		subject = cache.New(100, 90)
	})

	Describe("Get", func() {
		It("returns not-found on an empty cache", func() {
			_, ok := subject.Get("GET http://example.com/ HTTP/1.1")
			Expect(ok).To(BeFalse())
			Expect(subject.Len()).To(Equal(0))
		})

		It("returns the inserted value and size", func() {
			subject.Insert("k", []byte("<body>"), 6)

			e, ok := subject.Get("k")
			Expect(ok).To(BeTrue())
			Expect(e.Key).To(Equal("k"))
			Expect(e.Value).To(Equal([]byte("<body>")))
			Expect(e.Size).To(Equal(int64(6)))
		})

		It("does not modify the cache on a miss", func() {
			insert(subject, "a", 10)
			insert(subject, "b", 10)

			_, ok := subject.Get("c")
			Expect(ok).To(BeFalse())
			Expect(subject.Keys()).To(Equal([]string{"b", "a"}))
			Expect(subject.Size()).To(Equal(int64(20)))
		})

		It("makes the entry the most recently used", func() {
			insert(subject, "a", 10)
			insert(subject, "b", 10)
			insert(subject, "c", 10)

			subject.Get("a")
			Expect(subject.Keys()).To(Equal([]string{"a", "c", "b"}))
		})
	})

	Describe("Insert", func() {
		It("caches zero-size values", func() {
			subject.Insert("empty", []byte{}, 0)

			e, ok := subject.Get("empty")
			Expect(ok).To(BeTrue())
			Expect(e.Size).To(BeZero())
			Expect(subject.Len()).To(Equal(1))
		})

		It("replaces an existing entry without creating a duplicate", func() {
			insert(subject, "a", 10)
			insert(subject, "b", 10)
			subject.Insert("a", []byte("updated"), 7)

			Expect(subject.Len()).To(Equal(2))
			Expect(subject.Size()).To(Equal(int64(17)))
			Expect(subject.Keys()).To(Equal([]string{"a", "b"}))

			e, _ := subject.Get("a")
			Expect(e.Value).To(Equal([]byte("updated")))
		})

		It("does not count a replaced entry against the capacity", func() {
			insert(subject, "a", 10)
			insert(subject, "b", 90)
			insert(subject, "b", 90)

			Expect(subject.Keys()).To(Equal([]string{"b", "a"}))
			Expect(subject.Size()).To(Equal(int64(100)))
		})

		It("evicts exactly the least recently used entry", func() {
			insert(subject, "A", 10)
			insert(subject, "B", 10)
			insert(subject, "C", 80)
			Expect(subject.Size()).To(Equal(int64(100)))

			insert(subject, "D", 10)

			_, ok := subject.Get("A")
			Expect(ok).To(BeFalse())
			_, ok = subject.Get("B")
			Expect(ok).To(BeTrue())
			_, ok = subject.Get("C")
			Expect(ok).To(BeTrue())
			Expect(subject.Size()).To(Equal(int64(100)))
		})

		It("evicts from the least recently used end until there is room", func() {
			insert(subject, "A", 10)
			insert(subject, "B", 10)
			insert(subject, "C", 85)
			Expect(subject.Keys()).To(Equal([]string{"C", "B"}))
			Expect(subject.Size()).To(Equal(int64(95)))

			insert(subject, "D", 10)
			Expect(subject.Keys()).To(Equal([]string{"D", "C"}))
			Expect(subject.Size()).To(Equal(int64(95)))
		})

		It("respects recency refreshed by Get when evicting", func() {
			insert(subject, "A", 40)
			insert(subject, "B", 40)
			subject.Get("A")

			insert(subject, "C", 40)
			Expect(subject.Keys()).To(Equal([]string{"C", "A"}))
		})

		It("evicts several entries if required", func() {
			for i := 0; i < 10; i++ {
				insert(subject, fmt.Sprintf("k%d", i), 10)
			}

			insert(subject, "big", 90)
			Expect(subject.Keys()).To(Equal([]string{"big", "k9"}))
			Expect(subject.Size()).To(Equal(int64(100)))
			Expect(subject.Stats().Evictions).To(Equal(int64(9)))
		})

		DescribeTable(
			"never caches oversize values",
			func(maxSize, maxObjectSize int64, size int) {
				c := cache.New(maxSize, maxObjectSize)
				insert(c, "k", size)

				_, ok := c.Get("k")
				Expect(ok).To(BeFalse())
				Expect(c.Size()).To(BeZero())
				Expect(c.Stats().Rejections).To(Equal(int64(1)))
			},
			Entry("larger than the object limit", int64(100), int64(90), 91),
			Entry("larger than the whole cache", int64(50), int64(90), 60),
		)

		It("removes an existing entry when it is replaced by an oversize value", func() {
			insert(subject, "k", 10)
			insert(subject, "other", 10)

			subject.Insert("k", body(90), 200)

			_, ok := subject.Get("k")
			Expect(ok).To(BeFalse())
			Expect(subject.Keys()).To(Equal([]string{"other"}))
			Expect(subject.Size()).To(Equal(int64(10)))
		})

		It("does not cache a value that is shorter than its size", func() {
			insert(subject, "k", 10)

			subject.Insert("k", nil, 25)

			_, ok := subject.Get("k")
			Expect(ok).To(BeFalse())
			Expect(subject.Size()).To(BeZero())
			Expect(subject.Stats().Rejections).To(Equal(int64(1)))
		})

		It("never exceeds the maximum size", func() {
			sizes := []int{3, 90, 17, 0, 45, 45, 12, 89, 1, 60, 99, 33}
			for i, n := range sizes {
				insert(subject, fmt.Sprintf("k%d", i%5), n)
				Expect(subject.Size()).To(BeNumerically("<=", subject.MaxSize()))
			}
		})
	})

	Describe("Remove", func() {
		It("removes the entry", func() {
			insert(subject, "k", 10)
			Expect(subject.Remove("k")).To(BeTrue())
			Expect(subject.Remove("k")).To(BeFalse())
			Expect(subject.Size()).To(BeZero())
		})
	})

	Describe("Stats", func() {
		It("reports activity and occupancy", func() {
			insert(subject, "a", 10)
			subject.Get("a")
			subject.Get("b")

			Expect(subject.Stats()).To(Equal(cache.Stats{
				Hits:          1,
				Misses:        1,
				Insertions:    1,
				Entries:       1,
				Size:          10,
				MaxSize:       100,
				MaxObjectSize: 90,
			}))
		})
	})

	Describe("concurrent use", func() {
		It("serves many concurrent readers and writers without corrupting the size", func() {
			subject = cache.New(1000, 100)

			var wg sync.WaitGroup
			for g := 0; g < 16; g++ {
				wg.Add(1)
				go func(g int) {
					defer GinkgoRecover()
					defer wg.Done()

					for i := 0; i < 200; i++ {
						key := fmt.Sprintf("k%d", (g*7+i)%40)
						if i%5 == 0 {
							insert(subject, key, (g+i)%120)
						} else if e, ok := subject.Get(key); ok {
							Expect(e.Value).To(HaveLen(int(e.Size)))
						}
					}
				}(g)
			}
			wg.Wait()

			var total int64
			keys := subject.Keys()
			for _, k := range keys {
				e, ok := subject.Get(k)
				Expect(ok).To(BeTrue())
				total += e.Size
			}

			Expect(keys).To(HaveLen(subject.Len()))
			Expect(subject.Size()).To(Equal(total))
			Expect(total).To(BeNumerically("<=", 1000))
		})
	})
})
