package ffmpeg

// Profile is a named target quality for a transcoded rendition. The
// ladder is a static lookup table; callers request profiles by name.
type Profile struct {
	Name         string
	Width        int
	Height       int
	VideoBitrate string
	MaxRate      string
	BufSize      string
	AudioBitrate string
}

var ladder = []Profile{
	{"1080p", 1920, 1080, "5000k", "5350k", "7500k", "192k"},
	{"720p", 1280, 720, "2800k", "2996k", "4200k", "128k"},
	{"480p", 854, 480, "1400k", "1498k", "2100k", "128k"},
	{"360p", 640, 360, "800k", "856k", "1200k", "96k"},
	{"240p", 426, 240, "400k", "428k", "600k", "64k"},
}

// LookupProfile returns the ladder entry for a profile name.
func LookupProfile(name string) (Profile, bool) {
	for _, p := range ladder {
		if p.Name == name {
			return p, true
		}
	}
	return Profile{}, false
}

// Ladder returns the full profile ladder, highest quality first.
func Ladder() []Profile {
	out := make([]Profile, len(ladder))
	copy(out, ladder)
	return out
}

// DecideDownscale returns the ladder entries that do not upscale the
// source dimensions.
func DecideDownscale(width, height int) []Profile {
	var res []Profile
	for _, p := range ladder {
		if width >= p.Width && height >= p.Height {
			res = append(res, p)
		}
	}
	return res
}
