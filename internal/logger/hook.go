package logger

import (
	"fmt"
	"io"
	"os"
	"runtime/debug"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

// filteredField đánh dấu entry bị FilterHook loại, AsyncHook sẽ bỏ qua
const filteredField = "_filtered"

// AsyncHook ghi log bất đồng bộ vào các writers trong một goroutine riêng.
// Khi buffer đầy, entry mới bị bỏ qua thay vì block request.
type AsyncHook struct {
	writers []io.Writer
	entries chan *logrus.Entry
	wg      sync.WaitGroup
	mu      sync.Mutex
	closed  bool
}

// NewAsyncHookWithWriters tạo async hook với nhiều writers
// bufferSize <= 0 => 1000
func NewAsyncHookWithWriters(writers []io.Writer, bufferSize int) *AsyncHook {
	if bufferSize <= 0 {
		bufferSize = 1000
	}
	hook := &AsyncHook{
		writers: writers,
		entries: make(chan *logrus.Entry, bufferSize),
	}
	hook.wg.Add(1)
	go hook.processEntries()
	return hook
}

// Levels trả về các log levels mà hook này xử lý
func (h *AsyncHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

// Fire không block, chỉ đưa entry vào channel
func (h *AsyncHook) Fire(entry *logrus.Entry) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		// Hook đã đóng: ghi thẳng
		h.write(snapshot(entry))
		return nil
	}

	select {
	case h.entries <- snapshot(entry):
	default:
	}
	return nil
}

// snapshot sao chép entry để goroutine ghi log không dùng chung Buffer/Data với logrus
func snapshot(entry *logrus.Entry) *logrus.Entry {
	cp := *entry
	cp.Buffer = nil
	cp.Data = make(logrus.Fields, len(entry.Data))
	for k, v := range entry.Data {
		cp.Data[k] = v
	}
	return &cp
}

func (h *AsyncHook) processEntries() {
	defer h.wg.Done()
	for entry := range h.entries {
		func() {
			defer func() {
				if r := recover(); r != nil {
					// Không dùng logger ở đây để tránh vòng lặp
					fmt.Fprintf(os.Stderr, "[LOGGER PANIC] Logger goroutine panic recovered: %v\n", r)
					debug.PrintStack()
				}
			}()
			h.write(entry)
		}()
	}
}

func (h *AsyncHook) write(entry *logrus.Entry) {
	if filtered, ok := entry.Data[filteredField].(bool); ok && filtered {
		return
	}
	delete(entry.Data, filteredField)

	var data []byte
	var err error
	if entry.Logger.Formatter != nil {
		data, err = entry.Logger.Formatter.Format(entry)
	} else {
		var line string
		line, err = entry.String()
		data = []byte(line)
	}
	if err != nil {
		return
	}
	for _, writer := range h.writers {
		_, _ = writer.Write(data)
	}
}

// Close đóng hook và đợi tất cả entries được xử lý xong
func (h *AsyncHook) Close() error {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return nil
	}
	h.closed = true
	close(h.entries)
	h.mu.Unlock()

	h.wg.Wait()
	return nil
}

// FilterHook đánh dấu các entry có field "module" không nằm trong danh sách cho phép.
// Entry không gắn module luôn được giữ lại. Warn trở lên không bao giờ bị lọc.
type FilterHook struct {
	allowedModules map[string]bool
}

// NewFilterHook parse danh sách module dạng "video,user". Rỗng hoặc "*" => không lọc.
func NewFilterHook(modules string) *FilterHook {
	allowed := make(map[string]bool)
	for _, m := range strings.Split(modules, ",") {
		if m = strings.TrimSpace(strings.ToLower(m)); m != "" {
			allowed[m] = true
		}
	}
	if allowed["*"] {
		allowed = map[string]bool{}
	}
	return &FilterHook{allowedModules: allowed}
}

// Levels chỉ lọc các level thấp hơn warn
func (h *FilterHook) Levels() []logrus.Level {
	return []logrus.Level{logrus.InfoLevel, logrus.DebugLevel, logrus.TraceLevel}
}

// Fire gắn cờ filtered để AsyncHook bỏ qua
func (h *FilterHook) Fire(entry *logrus.Entry) error {
	if len(h.allowedModules) == 0 {
		return nil
	}
	module, ok := entry.Data["module"].(string)
	if !ok || module == "" {
		return nil
	}
	if !h.allowedModules[strings.ToLower(module)] {
		entry.Data[filteredField] = true
	}
	return nil
}
