// executor.go: default task executor
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package xanthos

import (
	"runtime"
	"sync"
)

// poolExecutor runs tasks on a small fixed worker pool, backed by a task
// channel buffered to 1024 entries: submitters do not block until 1024
// tasks are already waiting, and then block until a worker takes one.
type poolExecutor struct {
	tasks chan func()
	once  sync.Once
}

var sharedExecutor *poolExecutor
var sharedExecutorOnce sync.Once

// defaultExecutor returns the package-wide default Executor, lazily
// starting its worker pool on first use.
func defaultExecutor() Executor {
	sharedExecutorOnce.Do(func() {
		workers := runtime.GOMAXPROCS(0)
		if workers < 2 {
			workers = 2
		}
		sharedExecutor = newPoolExecutor(workers)
	})
	return sharedExecutor.submit
}

func newPoolExecutor(workers int) *poolExecutor {
	p := &poolExecutor{tasks: make(chan func(), 1024)}
	for i := 0; i < workers; i++ {
		go p.worker()
	}
	return p
}

func (p *poolExecutor) worker() {
	for task := range p.tasks {
		runTaskSafely(task)
	}
}

func (p *poolExecutor) submit(task func()) {
	p.tasks <- task
}

// runTaskSafely invokes task, recovering a panic so one misbehaving
// RemovalListener or Loader cannot crash a worker goroutine permanently.
func runTaskSafely(task func()) {
	defer func() {
		_ = recover()
	}()
	task()
}
