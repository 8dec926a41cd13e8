package arch

import (
	"fmt"
	"strings"
	"time"
)

// Reporter receives the run report of the archive application.
// Out carries informational lines, Err failures and advisories. A line may
// span multiple physical lines.
type Reporter interface {
	Out(line string)
	Err(line string)
}

// UpdateTimes are the timestamps of one executed target update.
type UpdateTimes struct {
	// Init is taken when the update starts.
	Init time.Time
	// Transform is taken after staging and compression.
	Transform time.Time
	// Archive is taken after the archive command returned.
	Archive time.Time
}

// TargetEvent renders the report of one target update.
// Times and RetCode are only set for targets whose update was executed.
type TargetEvent struct {
	Target  *Target
	Times   *UpdateTimes
	RetCode *int
}

func (e *TargetEvent) String() string {
	var tInfo string
	if e.Times != nil {
		tInfo = fmt.Sprintf(", t(init)=%s, dt(tran)=%ds, dt(arch)=%ds",
			e.Times.Init.UTC().Format("2006-01-02T15:04:05Z"),
			int(e.Times.Transform.Sub(e.Times.Init).Seconds()),
			int(e.Times.Archive.Sub(e.Times.Transform).Seconds()),
		)
	}

	var retCodeStr string
	if e.RetCode != nil {
		retCodeStr = fmt.Sprintf(", ret-code=%d", *e.RetCode)
	}

	var b strings.Builder

	fmt.Fprintf(&b, "%s %s [compress=%s%s%s]",
		e.Target.Status, e.Target.Name, e.Target.CompressScheme, tInfo, retCodeStr)

	if e.Target.Status != StatusOld {
		for _, source := range e.Target.SortedSources() {
			fmt.Fprintf(&b, "\n%s\t%s (%s)", e.Target.Status, source.Name, source.OrigName)
		}
	}

	return b.String()
}
