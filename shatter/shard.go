package shatter

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/antigravity-labs/securecore"
	"github.com/antigravity-labs/securecore/internal/atomicio"
	"github.com/antigravity-labs/securecore/primitives"
	"github.com/antigravity-labs/securecore/progress"
)

const manifestSuffix = ".shatter_manifest"

// Input configures a Shatter invocation.
type Input struct {
	// Path is the plaintext file to shard.
	Path string
	// Passphrase derives the manifest master key.
	Passphrase string
	// OutDir overrides the default "<basename>_sharded" sibling directory.
	OutDir string
	// DeleteOriginal securely erases Path once the manifest is durably
	// written.
	DeleteOriginal bool
	// Progress receives fraction-complete and status updates, one call per
	// chunk written. May be nil.
	Progress progress.Func
	// Logger overrides the package default logger. May be nil.
	Logger logrus.FieldLogger
}

func (in Input) logger() logrus.FieldLogger {
	if in.Logger != nil {
		return in.Logger
	}
	return logrus.StandardLogger()
}

func (in Input) progress() progress.Func {
	if in.Progress == nil {
		return progress.Nop
	}
	return in.Progress
}

// Validate checks the invocation is well-formed before any I/O happens.
func (in Input) Validate() error {
	if in.Path == "" {
		return securecore.NewInputError("", "path is required")
	}
	if in.Passphrase == "" {
		return securecore.NewInputError(in.Path, "passphrase is required")
	}
	info, err := os.Stat(in.Path)
	if err != nil {
		return securecore.NewInputError(in.Path, "file does not exist or is not readable")
	}
	if info.IsDir() {
		return securecore.NewInputError(in.Path, "path is a directory, not a file")
	}
	return nil
}

// Shatter splits in.Path into authenticated encrypted chunks under an
// opaque-filename manifest, per the chunk-size policy in policy.go. It
// returns the directory the chunks and manifest were written to.
func Shatter(ctx context.Context, in Input) (string, error) {
	if err := in.Validate(); err != nil {
		return "", err
	}
	log := in.logger().WithField("component", "shatter")

	info, err := os.Stat(in.Path)
	if err != nil {
		return "", securecore.NewIOError("stat", in.Path, err)
	}
	originalSize := info.Size()
	chunkSize := chunkSizeFor(originalSize)

	outDir := in.OutDir
	if outDir == "" {
		base := filepath.Base(in.Path)
		outDir = filepath.Join(filepath.Dir(in.Path), trimExt(base)+"_sharded")
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return "", securecore.NewIOError("mkdir", outDir, err)
	}

	salt, err := primitives.NewSalt()
	if err != nil {
		return "", securecore.NewCryptoError(in.Path, "salt-generation-failed", err)
	}
	masterKey := deriveMasterKey(in.Passphrase, salt)
	defer masterKey.Destroy()

	f, err := os.Open(in.Path)
	if err != nil {
		return "", securecore.NewIOError("open", in.Path, err)
	}
	defer f.Close()

	manifest := newManifest(filepath.Base(in.Path), originalSize, chunkSize)
	total := chunkCount(originalSize, chunkSize)
	stats := progress.NewStats()
	prog := progress.Serialize(in.progress())

	buf := make([]byte, chunkSize)
	for index := 0; index < total; index++ {
		select {
		case <-ctx.Done():
			return "", securecore.NewIOError("shatter", in.Path, ctx.Err())
		default:
		}

		n, readErr := io.ReadFull(f, buf)
		if readErr == io.ErrUnexpectedEOF || readErr == io.EOF {
			readErr = nil
		}
		if readErr != nil {
			return "", securecore.NewIOError("read", in.Path, readErr)
		}
		plaintext := buf[:n]

		entry, err := writeChunk(outDir, masterKey, plaintext, uint64(index))
		if err != nil {
			return "", err
		}
		manifest.Chunks = append(manifest.Chunks, entry)

		stats.Add(int64(n))
		prog(float64(index+1)/float64(total), stats.String(index+1, total))
		log.WithField("chunk", index).Debug("chunk written")
	}

	if err := writeManifest(in.Path, outDir, salt, masterKey, manifest); err != nil {
		return "", err
	}

	if in.DeleteOriginal {
		if err := atomicio.SecureErase(in.Path); err != nil {
			return "", securecore.NewIOError("secure-erase", in.Path, err)
		}
	}

	log.WithFields(logrus.Fields{"chunks": total, "out_dir": outDir}).Info("shatter complete")
	return outDir, nil
}

func writeChunk(outDir string, masterKey *primitives.Secret, plaintext []byte, index uint64) (ChunkEntry, error) {
	chunkKey, err := newChunkKey()
	if err != nil {
		return ChunkEntry{}, securecore.NewCryptoError("", "chunk-key-generation-failed", err)
	}
	defer zero(chunkKey)

	hash := primitives.HashSHA256(plaintext)

	blob, err := encryptChunk(chunkKey, plaintext, index)
	if err != nil {
		return ChunkEntry{}, securecore.NewCryptoError("", "chunk-seal-failed", err)
	}

	id, err := chunkIDHex()
	if err != nil {
		return ChunkEntry{}, securecore.NewCryptoError("", "chunk-id-generation-failed", err)
	}
	filename := id + ".enc"
	chunkPath := filepath.Join(outDir, filename)
	if err := atomicio.WriteFile(chunkPath, blob, 0o600); err != nil {
		return ChunkEntry{}, securecore.NewIOError("write", chunkPath, err)
	}

	var wrappedKey string
	err = masterKey.Use(func(mk []byte) error {
		var werr error
		wrappedKey, werr = wrapChunkKey(mk, chunkKey, id)
		return werr
	})
	if err != nil {
		return ChunkEntry{}, securecore.NewCryptoError(chunkPath, "chunk-key-wrap-failed", err)
	}

	return ChunkEntry{
		Index:    int(index),
		ID:       id,
		Filename: filename,
		Key:      wrappedKey,
		Hash:     hash,
	}, nil
}

func writeManifest(originalPath, outDir string, salt []byte, masterKey *primitives.Secret, manifest *Manifest) error {
	manifestJSON, err := manifest.marshal()
	if err != nil {
		return securecore.NewFormatError("", "encode manifest", err)
	}

	var framed []byte
	err = masterKey.Use(func(mk []byte) error {
		var serr error
		framed, serr = encryptManifest(mk, salt, manifestJSON)
		return serr
	})
	if err != nil {
		return securecore.NewCryptoError("", "manifest-seal-failed", err)
	}

	manifestPath := filepath.Join(outDir, trimExt(filepath.Base(originalPath))+manifestSuffix)
	if err := atomicio.WriteFile(manifestPath, framed, 0o600); err != nil {
		return securecore.NewIOError("write", manifestPath, err)
	}
	if err := atomicio.CopyFile(manifestPath, manifestPath+".bak"); err != nil {
		return securecore.NewIOError("write", manifestPath+".bak", err)
	}
	return nil
}

func trimExt(name string) string {
	ext := filepath.Ext(name)
	return name[:len(name)-len(ext)]
}

func zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
