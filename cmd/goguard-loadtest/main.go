package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/ethereum/go-ethereum/common"
	"github.com/redis/go-redis/v9"

	goGuard "github.com/MrEthical07/goGuard"
)

func main() {
	var (
		users       = flag.Int("users", 50000, "number of users to seed")
		targets     = flag.Int("targets", 64, "number of protected targets")
		concurrency = flag.Int("concurrency", 256, "number of concurrent workers")
		ops         = flag.Int("ops", 500000, "operations per phase (cancall + mutate)")
		redisAddr   = flag.String("redis-addr", "", "redis address; if empty, REDIS_ADDR env or miniredis is used")
		prefix      = flag.String("prefix", "gg", "policy key prefix")
	)
	flag.Parse()

	if *users <= 0 || *targets <= 0 || *concurrency <= 0 || *ops <= 0 {
		fmt.Fprintln(os.Stderr, "users, targets, concurrency, and ops must be > 0")
		os.Exit(2)
	}

	ctx := context.Background()

	addr := *redisAddr
	if addr == "" {
		addr = os.Getenv("REDIS_ADDR")
	}

	var (
		cleanup func()
		client  redis.UniversalClient
	)
	if addr == "" {
		mr, err := miniredis.Run()
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to start miniredis: %v\n", err)
			os.Exit(1)
		}
		addr = mr.Addr()
		client = redis.NewUniversalClient(&redis.UniversalOptions{
			Addrs: []string{addr},
		})
		cleanup = func() {
			_ = client.Close()
			mr.Close()
		}
		fmt.Printf("using miniredis at %s\n", addr)
	} else {
		client = redis.NewUniversalClient(&redis.UniversalOptions{
			Addrs: []string{addr},
		})
		cleanup = func() { _ = client.Close() }
		fmt.Printf("using redis at %s\n", addr)
	}
	defer cleanup()

	owner := common.HexToAddress("0x00000000000000000000000000000000000000aa")

	cfg := goGuard.DefaultConfig()
	cfg.Authority.Address = common.HexToAddress("0x0000000000000000000000000000000000000a01")
	cfg.Pause.Address = common.HexToAddress("0x0000000000000000000000000000000000000a02")
	cfg.Store.RedisPrefix = *prefix

	suite, err := goGuard.New().
		WithConfig(cfg).
		WithOwner(owner).
		WithRedis(client).
		WithMetrics(true).
		Build(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "build failed: %v\n", err)
		os.Exit(1)
	}
	defer suite.Close()

	userAddrs := make([]common.Address, *users)
	targetAddrs := make([]common.Address, *targets)
	selector := goGuard.SelectorOf("execute(bytes)")

	fmt.Printf("seeding %d users across %d targets...\n", *users, *targets)
	startSeed := time.Now()
	for i := range userAddrs {
		userAddrs[i] = addressFor(0xB0, i)
		role := goGuard.Role(i % 64)
		if err := suite.Auth.SetUserRole(ctx, owner, userAddrs[i], role, true); err != nil {
			fmt.Fprintf(os.Stderr, "seed user failed: %v\n", err)
			os.Exit(1)
		}
	}
	for i := range targetAddrs {
		targetAddrs[i] = addressFor(0xC0, i)
		for role := goGuard.Role(0); role < 64; role++ {
			if err := suite.Auth.SetRoleCapability(ctx, owner, targetAddrs[i], selector, role, true); err != nil {
				fmt.Fprintf(os.Stderr, "seed capability failed: %v\n", err)
				os.Exit(1)
			}
		}
	}
	fmt.Printf("seeded in %s\n", time.Since(startSeed).Round(time.Millisecond))

	canCallStats := runCanCallPhase(suite, userAddrs, targetAddrs, selector, *ops, *concurrency)
	mutateStats := runMutatePhase(ctx, suite, owner, userAddrs, *ops, *concurrency)

	fmt.Println("---- results ----")
	printStats("cancall", canCallStats)
	printStats("mutate", mutateStats)

	snap := suite.MetricsSnapshot()
	fmt.Printf("allowed=%d denied=%d\n",
		snap.Counters[goGuard.MetricCanCallAllowed],
		snap.Counters[goGuard.MetricCanCallDenied],
	)
}

func runCanCallPhase(suite *goGuard.Suite, users, targets []common.Address, selector goGuard.Selector, ops, concurrency int) phaseStats {
	var (
		wg        sync.WaitGroup
		cursor    int64
		failures  int64
		latencies = make([]time.Duration, 0, ops)
		mu        sync.Mutex
	)

	start := time.Now()
	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			r := rand.New(rand.NewSource(time.Now().UnixNano() + int64(worker)*7919))
			for {
				i := int(atomic.AddInt64(&cursor, 1)) - 1
				if i >= ops {
					return
				}
				user := users[r.Intn(len(users))]
				target := targets[r.Intn(len(targets))]
				t0 := time.Now()
				allowed := suite.Auth.CanCall(user, target, selector)
				d := time.Since(t0)
				if !allowed {
					atomic.AddInt64(&failures, 1)
				}
				mu.Lock()
				latencies = append(latencies, d)
				mu.Unlock()
			}
		}(w)
	}
	wg.Wait()
	total := time.Since(start)
	return computeStats(total, latencies, failures)
}

func runMutatePhase(ctx context.Context, suite *goGuard.Suite, owner common.Address, users []common.Address, ops, concurrency int) phaseStats {
	var (
		wg        sync.WaitGroup
		cursor    int64
		failures  int64
		latencies = make([]time.Duration, 0, ops)
		mu        sync.Mutex
	)

	start := time.Now()
	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			r := rand.New(rand.NewSource(time.Now().UnixNano() + int64(worker)*6151))
			for {
				i := int(atomic.AddInt64(&cursor, 1)) - 1
				if i >= ops {
					return
				}
				user := users[r.Intn(len(users))]
				role := goGuard.Role(64 + r.Intn(64))
				t0 := time.Now()
				err := suite.Auth.SetUserRole(ctx, owner, user, role, i%2 == 0)
				d := time.Since(t0)
				if err != nil {
					atomic.AddInt64(&failures, 1)
				}
				mu.Lock()
				latencies = append(latencies, d)
				mu.Unlock()
			}
		}(w)
	}
	wg.Wait()
	total := time.Since(start)
	return computeStats(total, latencies, failures)
}

type phaseStats struct {
	total    time.Duration
	ops      int
	failures int64
	p50      time.Duration
	p95      time.Duration
	p99      time.Duration
	opsPerS  float64
}

func computeStats(total time.Duration, samples []time.Duration, failures int64) phaseStats {
	if len(samples) == 0 {
		return phaseStats{total: total}
	}
	sort.Slice(samples, func(i, j int) bool { return samples[i] < samples[j] })
	return phaseStats{
		total:    total,
		ops:      len(samples),
		failures: failures,
		p50:      percentile(samples, 50),
		p95:      percentile(samples, 95),
		p99:      percentile(samples, 99),
		opsPerS:  float64(len(samples)) / total.Seconds(),
	}
}

func percentile(samples []time.Duration, p int) time.Duration {
	if len(samples) == 0 {
		return 0
	}
	if p <= 0 {
		return samples[0]
	}
	if p >= 100 {
		return samples[len(samples)-1]
	}
	idx := (len(samples) - 1) * p / 100
	return samples[idx]
}

func printStats(name string, s phaseStats) {
	fmt.Printf("%s: ops=%d failures=%d total=%s ops/sec=%.0f p50=%s p95=%s p99=%s\n",
		name,
		s.ops,
		s.failures,
		s.total.Round(time.Millisecond),
		s.opsPerS,
		s.p50.Round(time.Microsecond),
		s.p95.Round(time.Microsecond),
		s.p99.Round(time.Microsecond),
	)
}

func addressFor(tag byte, i int) common.Address {
	var out common.Address
	out[0] = tag
	out[16] = byte(i >> 24)
	out[17] = byte(i >> 16)
	out[18] = byte(i >> 8)
	out[19] = byte(i)
	return out
}
