package fileutils

import (
	"fmt"
	"io"
	"os"
	"time"
)

// ProgressOutput receives the progress line of EncryptFile and DecryptFile.
// Set it to io.Discard to silence them.
var ProgressOutput io.Writer = os.Stderr

// ProgressWriter tracks bytes written and updates terminal progress
type ProgressWriter struct {
	Writer     io.Writer
	Label      string
	TotalBytes int64
	Written    int64
	StartTime  time.Time
	Out        io.Writer
}

// Write implements the io.Writer interface
func (pw *ProgressWriter) Write(p []byte) (n int, err error) {
	n, err = pw.Writer.Write(p)
	pw.Written += int64(n)
	pw.updateProgress()
	return
}

// Finish terminates the progress line.
func (pw *ProgressWriter) Finish() {
	if pw.Out != nil && pw.TotalBytes > 0 {
		fmt.Fprintln(pw.Out)
	}
}

// updateProgress prints the current progress to Out
func (pw *ProgressWriter) updateProgress() {
	if pw.Out == nil || pw.TotalBytes == 0 {
		return
	}

	written := pw.Written
	if written > pw.TotalBytes {
		written = pw.TotalBytes
	}
	progress := float64(written) / float64(pw.TotalBytes) * 100
	elapsed := time.Since(pw.StartTime).Seconds()

	var rateStr string
	if elapsed > 0 {
		rate := float64(written) / elapsed // bytes per second
		rateStr = formatBytes(int64(rate)) + "/s"
	}

	fmt.Fprintf(pw.Out, "\r%s: %.2f%% (%s/%s) [%s]",
		pw.Label,
		progress,
		formatBytes(written),
		formatBytes(pw.TotalBytes),
		rateStr,
	)
}

// formatBytes helper function for human-readable file size
func formatBytes(b int64) string {
	const unit = 1024
	if b < unit {
		return fmt.Sprintf("%d B", b)
	}
	div, exp := int64(unit), 0
	for n := b / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(b)/float64(div), "KMGTPE"[exp])
}
