// Package utimensat verifies utimensat(2) timestamp updates, including
// the UTIME_NOW and UTIME_OMIT special values. The tests register only
// on hosts whose libc exposes the syscall; elsewhere the group is
// empty and the feature guard reports the gap.
package utimensat
