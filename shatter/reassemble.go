package shatter

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/antigravity-labs/securecore"
	"github.com/antigravity-labs/securecore/internal/atomicio"
	"github.com/antigravity-labs/securecore/primitives"
	"github.com/antigravity-labs/securecore/progress"
)

// ReassembleInput configures a Reassemble invocation.
type ReassembleInput struct {
	// ManifestPath is the "<name>.shatter_manifest" (or ".bak") file to
	// read.
	ManifestPath string
	// Passphrase derives the manifest master key.
	Passphrase string
	// OutDir is the directory the reassembled file is written into. When
	// empty, the manifest's own directory is used. With DeleteSource set,
	// an OutDir equal to the manifest's directory is replaced by its parent.
	OutDir string
	// DeleteSource removes every chunk, the manifest and its backup, and
	// the containing "_sharded" directory (if now empty) on success.
	DeleteSource bool
	// Progress receives fraction-complete and status updates, one call per
	// chunk written to the output file, in index order. May be nil.
	Progress progress.Func
	// Logger overrides the package default logger. May be nil.
	Logger logrus.FieldLogger
}

func (in ReassembleInput) logger() logrus.FieldLogger {
	if in.Logger != nil {
		return in.Logger
	}
	return logrus.StandardLogger()
}

func (in ReassembleInput) progress() progress.Func {
	if in.Progress == nil {
		return progress.Nop
	}
	return in.Progress
}

// chunkResult is a completed decrypt, delivered to the ordered writer by
// index; workers may finish out of order, the writer never does.
type chunkResult struct {
	index     int
	plaintext []byte
	err       error
}

// Reassemble decrypts and verifies every chunk referenced by the manifest
// at in.ManifestPath and writes the recovered plaintext to a file derived
// from the manifest's original_filename, in in.OutDir. Chunks are decrypted
// by a bounded worker pool; the resulting plaintext is written strictly in
// index order regardless of completion order.
func Reassemble(ctx context.Context, in ReassembleInput) (string, error) {
	if in.ManifestPath == "" {
		return "", securecore.NewInputError("", "manifest path is required")
	}
	if in.Passphrase == "" {
		return "", securecore.NewInputError(in.ManifestPath, "passphrase is required")
	}
	log := in.logger().WithField("component", "shatter")

	framed, err := os.ReadFile(in.ManifestPath)
	if err != nil {
		return "", securecore.NewIOError("read", in.ManifestPath, err)
	}

	masterKey, manifestJSON, err := decryptManifest(in.Passphrase, framed)
	if err != nil {
		return "", securecore.NewCryptoError(in.ManifestPath, "manifest-open-failed", err)
	}
	defer masterKey.Destroy()

	manifest, err := parseManifest(manifestJSON)
	if err != nil {
		return "", err
	}

	chunks := make([]ChunkEntry, len(manifest.Chunks))
	copy(chunks, manifest.Chunks)
	sort.Slice(chunks, func(i, j int) bool { return chunks[i].Index < chunks[j].Index })

	chunkDir := filepath.Dir(in.ManifestPath)
	outDir := in.OutDir
	if outDir == "" {
		outDir = chunkDir
	}
	outDir = safeOutputDir(chunkDir, outDir, in.DeleteSource)
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return "", securecore.NewIOError("mkdir", outDir, err)
	}
	outPath := filepath.Join(outDir, manifest.OriginalFilename)

	var mkBytes []byte
	if err := masterKey.Use(func(k []byte) error {
		mkBytes = append([]byte(nil), k...)
		return nil
	}); err != nil {
		return "", securecore.NewCryptoError(in.ManifestPath, "master-key-open-failed", err)
	}
	defer zero(mkBytes)

	plaintexts, err := decryptChunksParallel(ctx, chunkDir, mkBytes, chunks)
	if err != nil {
		return "", err
	}

	out, err := os.Create(outPath)
	if err != nil {
		return "", securecore.NewIOError("create", outPath, err)
	}

	prog := in.progress()
	total := len(chunks)
	for i, pt := range plaintexts {
		if _, werr := out.Write(pt); werr != nil {
			out.Close()
			os.Remove(outPath)
			return "", securecore.NewIOError("write", outPath, werr)
		}
		prog(float64(i+1)/float64(total), fmt.Sprintf("%d/%d", i+1, total))
	}
	if err := out.Sync(); err != nil {
		out.Close()
		os.Remove(outPath)
		return "", securecore.NewIOError("sync", outPath, err)
	}
	if err := out.Close(); err != nil {
		os.Remove(outPath)
		return "", securecore.NewIOError("close", outPath, err)
	}

	log.WithFields(logrus.Fields{"chunks": total, "out": outPath}).Info("reassemble complete")

	if in.DeleteSource {
		if err := cleanupShardedDir(chunkDir, chunks, in.ManifestPath); err != nil {
			return outPath, err
		}
	}

	return outPath, nil
}

// safeOutputDir implements the SH-safety rule: if the chunk directory is
// the chosen output directory and source deletion was requested, redirect
// one level up so reassembly never deletes its own freshly written output.
func safeOutputDir(chunkDir, outDir string, deleteSource bool) string {
	if deleteSource && filepath.Clean(outDir) == filepath.Clean(chunkDir) {
		return filepath.Dir(chunkDir)
	}
	return outDir
}

// decryptChunksParallel decrypts every chunk with a worker pool of size
// min(32, NumCPU()+4), grounded on parallel.go's channel-fed worker shape,
// and returns plaintexts ordered by manifest index.
func decryptChunksParallel(ctx context.Context, chunkDir string, masterKey []byte, chunks []ChunkEntry) ([][]byte, error) {
	n := len(chunks)
	if n == 0 {
		return nil, nil
	}

	numWorkers := runtime.NumCPU() + 4
	if numWorkers > 32 {
		numWorkers = 32
	}
	if numWorkers > n {
		numWorkers = n
	}
	if numWorkers < 1 {
		numWorkers = 1
	}

	jobs := make(chan int, n)
	results := make(chan chunkResult, n)

	for w := 0; w < numWorkers; w++ {
		go func() {
			for idx := range jobs {
				res := decryptOneChunkSafe(chunkDir, masterKey, chunks[idx], idx)
				select {
				case results <- res:
				case <-ctx.Done():
					return
				}
			}
		}()
	}
	for i := 0; i < n; i++ {
		jobs <- i
	}
	close(jobs)

	ordered := make([][]byte, n)
	var firstErr error
	for i := 0; i < n; i++ {
		res := <-results
		if res.err != nil && firstErr == nil {
			firstErr = res.err
		}
		ordered[res.index] = res.plaintext
	}
	if firstErr != nil {
		return nil, firstErr
	}
	return ordered, nil
}

// decryptOneChunkSafe recovers a worker panic into a result error instead
// of crashing the whole pool, grounded on parallel.go's
// parallelDecryptChunks panic-recovery shape.
func decryptOneChunkSafe(chunkDir string, masterKey []byte, entry ChunkEntry, idx int) (res chunkResult) {
	res.index = idx
	defer func() {
		if r := recover(); r != nil {
			res.err = securecore.NewCryptoError(entry.Filename, "chunk-worker-panic", fmt.Errorf("panic in decrypt worker: %v", r))
		}
	}()
	res.plaintext, res.err = decryptOneChunk(chunkDir, masterKey, entry)
	return res
}

func decryptOneChunk(chunkDir string, masterKey []byte, entry ChunkEntry) ([]byte, error) {
	chunkPath := filepath.Join(chunkDir, entry.Filename)
	blob, err := os.ReadFile(chunkPath)
	if err != nil {
		return nil, securecore.NewIOError("read", chunkPath, err)
	}

	chunkKey, err := unwrapChunkKey(masterKey, entry.Key, entry.ID)
	if err != nil {
		return nil, securecore.NewCryptoError(chunkPath, "chunk-key-unwrap-failed", err)
	}
	defer zero(chunkKey)

	plaintext, err := decryptChunk(chunkKey, blob, uint64(entry.Index))
	if err != nil {
		return nil, securecore.NewCryptoError(chunkPath, "chunk-open-failed", err)
	}

	if !primitives.ConstantTimeEqual(primitives.HashSHA256(plaintext), entry.Hash) {
		return nil, securecore.NewCryptoError(chunkPath, "chunk-hash-mismatch", nil)
	}

	return plaintext, nil
}

func cleanupShardedDir(chunkDir string, chunks []ChunkEntry, manifestPath string) error {
	for _, c := range chunks {
		os.Remove(filepath.Join(chunkDir, c.Filename))
	}
	os.Remove(manifestPath)
	os.Remove(manifestPath + ".bak")

	entries, err := os.ReadDir(chunkDir)
	if err == nil && len(entries) == 0 && strings.HasSuffix(chunkDir, "_sharded") {
		os.Remove(chunkDir)
	}
	return nil
}
