//go:build !freebsd && !darwin && !netbsd

package features

const hasBirthtime = false
