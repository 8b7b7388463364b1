// Package stability decides when a file has stopped growing.
//
// Screenshot tools commonly create a file first and write its content
// asynchronously, so a single size reading can never certify completeness.
// The checker polls the file size on a fixed cadence and declares a file
// stable only after two consecutive equal, non-zero readings. A file that
// disappears mid-poll was a placeholder or temp file and yields a vanished
// verdict; a file still growing at the deadline is assumed stable, because
// never notifying is worse than a rare truncated preview.
package stability
