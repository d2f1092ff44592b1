// Command corebench drives corekit containers through repeatable workloads
// and reports container shape, timings and allocator statistics.
//
//	corebench all --n 100000 --allocator mmap --budget 67108864 --parallel 4
//	corebench map --n 1000 --json --metrics
package main

func main() {
	execute()
}
