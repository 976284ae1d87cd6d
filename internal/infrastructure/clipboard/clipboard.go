// Package clipboard 提供剪贴板实现：系统剪贴板（CLI）与内存捕获（HTTP 响应回传）
package clipboard

import (
	"sync"

	"github.com/atotto/clipboard"
)

// System 写入操作系统剪贴板
type System struct{}

func (System) WriteAll(text string) error {
	return clipboard.WriteAll(text)
}

// Available 当前环境是否有可用的系统剪贴板
func Available() bool {
	return !clipboard.Unsupported
}

// Capture 记录最后一次写入，供 HTTP 接口在响应体中返回
type Capture struct {
	mu   sync.Mutex
	text string
	n    int
}

func (c *Capture) WriteAll(text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.text = text
	c.n++
	return nil
}

// Text 最后一次写入的内容
func (c *Capture) Text() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.text
}

// Writes 写入次数
func (c *Capture) Writes() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.n
}
