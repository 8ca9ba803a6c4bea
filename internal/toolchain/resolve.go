package toolchain

import "context"

// Latest is the symbolic version that resolves to the newest release tag.
const Latest = "latest"

// Resolve maps a requested version to a concrete release tag. Explicit tags
// pass through untouched; whether they exist is only discovered when
// something downloads. The symbolic latest asks the release host and wraps
// any failure in a *ResolutionError.
func (s *Service) Resolve(ctx context.Context, version string) (string, error) {
	if version != "" && version != Latest {
		return version, nil
	}

	tag, err := s.Release.LatestTag(ctx)
	if err != nil {
		return "", &ResolutionError{Err: err}
	}
	s.Logger.Info().Str("tag", tag).Msg("resolved latest release")
	return tag, nil
}
