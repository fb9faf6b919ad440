package harness

import (
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"

	"github.com/musikid/pjdfstest/lib/random"
)

// numRandChars is the length of generated file names.
const numRandChars = 32

// symlinkTarget is the placeholder target for symlinks created without
// an explicit one.
const symlinkTarget = "test"

// FileBuilder creates one filesystem entry of a chosen type. Builders
// are single use: the path is finalized exactly once, by Create or
// Open.
type FileBuilder struct {
	ft       FileType
	path     string
	random   bool
	mode     uint32
	hasMode  bool
	target   string
	dev      uint64
	consumed bool
}

// NewFileBuilder returns a builder rooted at base. Without an explicit
// name the entry gets a random alphanumeric one.
func NewFileBuilder(ft FileType, base string) *FileBuilder {
	return &FileBuilder{
		ft:     ft,
		path:   base,
		random: true,
		dev:    uint64(unix.Mkdev(1, 2)),
	}
}

// Mode overrides the default creation mode.
func (b *FileBuilder) Mode(mode uint32) *FileBuilder {
	b.mode = mode
	b.hasMode = true
	return b
}

// Name joins name to the base path. An absolute path replaces the base
// entirely.
func (b *FileBuilder) Name(name string) *FileBuilder {
	if filepath.IsAbs(name) {
		b.path = name
	} else {
		b.path = filepath.Join(b.path, name)
	}
	b.random = false
	return b
}

// Target sets the symlink target.
func (b *FileBuilder) Target(target string) *FileBuilder {
	b.target = target
	return b
}

// Dev sets the device numbers for block and character entries.
func (b *FileBuilder) Dev(major, minor uint32) *FileBuilder {
	b.dev = uint64(unix.Mkdev(major, minor))
	return b
}

// finalPath consumes the builder and returns the definitive path.
func (b *FileBuilder) finalPath() string {
	if b.consumed {
		panic("file builder used twice")
	}
	b.consumed = true
	if b.random {
		b.path = filepath.Join(b.path, random.String(numRandChars))
	}
	return b.path
}

func (b *FileBuilder) createMode() uint32 {
	if b.hasMode {
		return b.mode
	}
	if b.ft == Dir {
		return 0o755
	}
	return 0o644
}

// Create materializes the entry and returns its path. Device entries
// need elevated privileges; that requirement is declared on the test
// case, not enforced here.
func (b *FileBuilder) Create() (string, error) {
	mode := b.createMode()
	hasMode := b.hasMode
	path := b.finalPath()

	var err error
	switch b.ft {
	case Regular:
		var fd int
		fd, err = unix.Open(path, unix.O_CREAT, mode)
		if err == nil {
			err = unix.Close(fd)
		}
	case Dir:
		err = unix.Mkdir(path, mode)
	case Fifo:
		err = unix.Mkfifo(path, mode)
	case Block:
		err = mknod(path, unix.S_IFBLK|mode, b.dev)
	case Char:
		err = mknod(path, unix.S_IFCHR|mode, b.dev)
	case Socket:
		var fd int
		fd, err = unix.Socket(unix.AF_UNIX, unix.SOCK_STREAM, 0)
		if err == nil {
			err = unix.Bind(fd, &unix.SockaddrUnix{Name: path})
			_ = unix.Close(fd)
		}
		// bind(2) takes no mode argument
		if err == nil && hasMode {
			err = Chmod(path, mode)
		}
	case Symlink:
		target := b.target
		if target == "" {
			target = symlinkTarget
		}
		err = unix.Symlink(target, path)
		if err == nil && hasMode {
			if lerr := Lchmod(path, mode); lerr != nil && lerr != unix.ENOTSUP && lerr != unix.EOPNOTSUPP {
				err = lerr
			}
		}
	}
	if err != nil {
		return "", err
	}
	return path, nil
}

// Open creates the entry and opens it with oflags. For regular files
// creation and open are one atomic syscall; for every other type the
// underlying primitives force a separate create then open.
func (b *FileBuilder) Open(oflags int) (string, *os.File, error) {
	if b.ft == Regular {
		mode := b.createMode()
		path := b.finalPath()
		fd, err := unix.Open(path, unix.O_CREAT|oflags, mode)
		if err != nil {
			return "", nil, err
		}
		return path, os.NewFile(uintptr(fd), path), nil
	}
	path, err := b.Create()
	if err != nil {
		return "", nil, err
	}
	fd, err := unix.Open(path, oflags, 0)
	if err != nil {
		return "", nil, err
	}
	return path, os.NewFile(uintptr(fd), path), nil
}
