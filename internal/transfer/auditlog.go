package transfer

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/safar/makeup-inventory/internal/models"
)

const auditTimeLayout = "2006-01-02 15:04:05"

var ErrNoLog = errors.New("no activity log yet")

// AuditLog is the append-only activity log. Entries are never rewritten.
type AuditLog struct {
	path string
	now  func() time.Time
	mu   sync.Mutex
}

func NewAuditLog(path string) *AuditLog {
	return &AuditLog{path: path, now: time.Now}
}

func (l *AuditLog) Path() string {
	return l.path
}

// Record appends an entry for product stamped with the current time.
func (l *AuditLog) Record(action models.AuditAction, product models.Product) error {
	return l.Append(models.AuditEntry{Timestamp: l.now(), Action: action, Product: product})
}

func (l *AuditLog) Append(entry models.AuditEntry) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open audit log: %w", err)
	}

	if _, err := io.WriteString(f, FormatAuditEntry(entry)+"\n"); err != nil {
		f.Close()
		return fmt.Errorf("append audit log: %w", err)
	}
	return f.Close()
}

// CopyTo streams the log verbatim into w.
func (l *AuditLog) CopyTo(w io.Writer) (int64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := os.Open(l.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return 0, ErrNoLog
		}
		return 0, fmt.Errorf("open audit log: %w", err)
	}
	defer f.Close()

	n, err := io.Copy(w, f)
	if err != nil {
		return n, fmt.Errorf("copy audit log: %w", err)
	}
	return n, nil
}

func FormatAuditEntry(e models.AuditEntry) string {
	p := e.Product
	return fmt.Sprintf("%s | %s | ID:%d | %s | %s | Shade:%s | Price:%s | Items:%d",
		e.Timestamp.Format(auditTimeLayout),
		e.Action,
		p.ID,
		p.Name,
		p.Category,
		p.Shade,
		p.Price.StringFixed(2),
		p.Quantity)
}
