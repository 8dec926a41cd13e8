package arch

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/lijunde/rose/internal/checksum"
	"github.com/lijunde/rose/internal/compress"
	"github.com/lijunde/rose/internal/envsubst"
	"github.com/lijunde/rose/internal/exec"
	"github.com/lijunde/rose/internal/fs"
	"github.com/lijunde/rose/internal/log"
	"github.com/lijunde/rose/internal/set"
	"github.com/lijunde/rose/pkg/cfg"
)

// Resolver builds archive targets from the application configuration.
type Resolver struct {
	Config      *cfg.AppConfig
	Compressors *compress.Manager
	Reporter    Reporter
}

// ResolveTargets resolves every enabled target section of the
// configuration, in section name order.
// Configuration mistakes that cannot be attributed to a single target
// (duplicate names, unbound environment variables, missing compulsory
// options, a bad update-check or rename setting) abort the resolution.
// Mistakes confined to one target mark it StatusBad and resolution
// continues.
func (r *Resolver) ResolveTargets() ([]*Target, error) {
	seenNames := set.Set[string]{}

	var targets []*Target

	for _, sectionName := range r.Config.SectionNames() {
		if cfg.IsIgnored(sectionName) || !strings.Contains(sectionName, ":") {
			continue
		}

		head, tail, _ := strings.Cut(sectionName, ":")
		if head != SectionName || tail == "" {
			continue
		}

		tail, err := envsubst.Expand(tail)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", sectionName, err)
		}

		isCompulsory := true
		if strings.HasPrefix(tail, "(") && strings.HasSuffix(tail, ")") {
			tail = tail[1 : len(tail)-1]
			isCompulsory = false
		}

		if seenNames.Contains(tail) {
			return nil, &DuplicateTargetError{SectionName: sectionName, TargetName: tail}
		}
		seenNames.Add(tail)

		target, err := r.resolveTarget(sectionName, tail, isCompulsory)
		if err != nil {
			return nil, err
		}

		targets = append(targets, target)
	}

	return targets, nil
}

func (r *Resolver) resolveTarget(sectionName, nameSuffix string, isCompulsory bool) (*Target, error) {
	targetPrefix, err := r.value(sectionName, "target-prefix")
	if err != nil {
		return nil, err
	}

	target := NewTarget(targetPrefix + nameSuffix)

	target.CommandFormat, err = r.Config.CompulsoryValue(sectionName, SectionName, "command-format")
	if err != nil {
		return nil, err
	}

	if err := validateTemplate(target.CommandFormat, "sources", "target"); err != nil {
		target.Status = StatusBad
		r.Reporter.Err((&ValueError{
			TargetName: target.Name,
			Key:        "command-format",
			Value:      target.CommandFormat,
			Err:        err,
		}).Error())
	}

	target.SourceEditFormat, err = r.value(sectionName, "source-edit-format")
	if err != nil {
		return nil, err
	}

	if err := validateTemplate(target.SourceEditFormat, "in", "out"); err != nil {
		target.Status = StatusBad
		r.Reporter.Err((&ValueError{
			TargetName: target.Name,
			Key:        "source-edit-format",
			Value:      target.SourceEditFormat,
			Err:        err,
		}).Error())
	}

	updateCheck, err := r.value(sectionName, "update-check")
	if err != nil {
		return nil, err
	}

	checksumFunc, err := checksum.SchemeFunc(updateCheck)
	if err != nil {
		return nil, &ValueError{
			TargetName: target.Name,
			Key:        "update-check",
			Value:      updateCheck,
			Err:        err,
		}
	}

	if err := r.resolveSources(sectionName, target, checksumFunc, isCompulsory); err != nil {
		return nil, err
	}

	if len(target.Sources) == 0 {
		if isCompulsory {
			target.Status = StatusBad
		} else {
			target.Status = StatusNull
		}
	}

	if err := r.resolveCompressScheme(sectionName, target); err != nil {
		return nil, err
	}

	if err := r.applyRenameFormat(sectionName, target); err != nil {
		return nil, err
	}

	log.Debugf("%s: resolved target %q with %d sources", sectionName, target.Name, len(target.Sources))

	return target, nil
}

func (r *Resolver) resolveSources(sectionName string, target *Target, checksumFunc checksum.Func, isCompulsory bool) error {
	sourcePrefix, err := r.value(sectionName, "source-prefix")
	if err != nil {
		return err
	}

	sourceStr, err := r.Config.CompulsoryValue(sectionName, SectionName, "source")
	if err != nil {
		return err
	}

	sourceGlobs, err := exec.SplitWords(sourceStr)
	if err != nil {
		return &ValueError{
			TargetName: target.Name,
			Key:        "source",
			Value:      sourceStr,
			Err:        err,
		}
	}

	for _, sourceGlob := range sourceGlobs {
		isCompulsorySource := isCompulsory
		if strings.HasPrefix(sourceGlob, "(") && strings.HasSuffix(sourceGlob, ")") {
			sourceGlob = sourceGlob[1 : len(sourceGlob)-1]
			isCompulsorySource = false
		}

		paths, err := fs.Glob(sourcePrefix + sourceGlob)
		if err != nil {
			return &ValueError{
				TargetName: target.Name,
				Key:        "source",
				Value:      sourceGlob,
				Err:        err,
			}
		}

		if len(paths) == 0 {
			if isCompulsorySource {
				target.Status = StatusBad
				r.Reporter.Err(fmt.Sprintf(
					"%s=source=%s: configuration value error: %s: no such file or directory",
					sectionName, sourceGlob, sourcePrefix+sourceGlob))
			} else {
				log.Debugf("%s: optional source %q matched nothing", sectionName, sourceGlob)
			}
			continue
		}

		for _, path := range paths {
			// source-prefix is a plain string prefix, not necessarily a
			// directory
			name := path[len(sourcePrefix):]

			entries, err := checksum.Sum(path, checksumFunc)
			if err != nil {
				return err
			}

			for _, entry := range entries {
				if entry.IsDir {
					continue
				}

				if entry.RelPath != "" {
					target.Sources[entry.Sum] = NewSource(
						entry.Sum,
						filepath.Join(name, entry.RelPath),
						filepath.Join(path, entry.RelPath),
					)
					continue
				}

				target.Sources[entry.Sum] = NewSource(entry.Sum, name, path)
			}
		}
	}

	return nil
}

// resolveCompressScheme sets the compression scheme of the target.
// An explicitly configured scheme must be registered, an unknown one marks
// the target bad but stays recorded on it. Without one, the extension after
// the first dot of the final path segment of the target name selects a
// scheme when a handler matches it.
func (r *Resolver) resolveCompressScheme(sectionName string, target *Target) error {
	compressScheme, err := r.value(sectionName, "compress")
	if err != nil {
		return err
	}

	target.CompressScheme = compressScheme

	if compressScheme == "" {
		targetBase := target.Name
		if idx := strings.LastIndex(targetBase, "/"); idx >= 0 {
			targetBase = targetBase[idx+1:]
		}

		if idx := strings.Index(targetBase, "."); idx >= 0 {
			tail := targetBase[idx+1:]
			if r.Compressors.Handler(tail) != nil {
				target.CompressScheme = tail
			}
		}

		return nil
	}

	if r.Compressors.Handler(compressScheme) == nil {
		target.Status = StatusBad
		r.Reporter.Err((&ValueError{
			TargetName: target.Name,
			Key:        "compress",
			Value:      compressScheme,
			Err:        fmt.Errorf("unknown compression scheme, supported: %s", strings.Join(r.Compressors.Schemes(), ", ")),
		}).Error())
	}

	return nil
}

// applyRenameFormat rewrites the source names of the target according to
// rename-format. The template can reference cycle (ROSE_TASK_CYCLE_TIME),
// name, and the named captures of rename-parser matched against the start
// of each source name.
func (r *Resolver) applyRenameFormat(sectionName string, target *Target) error {
	renameFormat, err := r.value(sectionName, "rename-format")
	if err != nil {
		return err
	}

	if renameFormat == "" {
		return nil
	}

	renameParserStr, err := r.value(sectionName, "rename-parser")
	if err != nil {
		return err
	}

	var renameParser *regexp.Regexp
	if renameParserStr != "" {
		renameParser, err = regexp.Compile(renameParserStr)
		if err != nil {
			return &ValueError{
				TargetName: target.Name,
				Key:        "rename-parser",
				Value:      renameParserStr,
				Err:        err,
			}
		}
	}

	for _, source := range target.Sources {
		values := map[string]string{
			"cycle": os.Getenv(EnvTaskCycleTime),
			"name":  source.Name,
		}

		if renameParser != nil {
			idx := renameParser.FindStringSubmatchIndex(source.Name)
			if idx != nil && idx[0] == 0 {
				for i, groupName := range renameParser.SubexpNames() {
					if i == 0 || groupName == "" {
						continue
					}

					start, end := idx[2*i], idx[2*i+1]
					if start < 0 {
						values[groupName] = ""
						continue
					}

					values[groupName] = source.Name[start:end]
				}
			}
		}

		newName, err := formatTemplate(renameFormat, values)
		if err != nil {
			return &ValueError{
				TargetName: target.Name,
				Key:        "rename-format",
				Value:      renameFormat,
				Err:        err,
			}
		}

		source.Name = newName
	}

	return nil
}

func (r *Resolver) value(sectionName, key string) (string, error) {
	return r.Config.Value(sectionName, SectionName, key)
}
