package studio

import "clipdeck/internal/timeline"

// ProjectPatch is a partial update to the remote project record. Nil fields
// are omitted from the wire payload so the server leaves them untouched;
// non-nil pointers to zero values clear the remote field.
type ProjectPatch struct {
	Title            *string                `json:"title,omitempty"`
	Clips            *[]timeline.Clip       `json:"clips,omitempty"`
	BrollClips       *[]timeline.BrollClip  `json:"brollClips,omitempty"`
	AudioURL         *string                `json:"audioUrl,omitempty"`
	ThumbnailURL     *string                `json:"thumbnailUrl,omitempty"`
	StitchStatus     *timeline.StitchStatus `json:"stitchStatus,omitempty"`
	StitchedVideoURL *string                `json:"stitchedVideoUrl,omitempty"`
	StitchError      *string                `json:"stitchError,omitempty"`
}

// Empty reports whether the patch carries no field at all.
func (p ProjectPatch) Empty() bool {
	return p.Title == nil && p.Clips == nil && p.BrollClips == nil &&
		p.AudioURL == nil && p.ThumbnailURL == nil &&
		p.StitchStatus == nil && p.StitchedVideoURL == nil && p.StitchError == nil
}

// ClipsPatch builds a patch replacing the remote main track.
func ClipsPatch(project timeline.Project) ProjectPatch {
	clips := make([]timeline.Clip, len(project.Clips))
	for i, clip := range project.Clips {
		clips[i] = clip.Clone()
	}
	return ProjectPatch{Clips: &clips}
}

// BrollPatch builds a patch replacing the remote overlay list.
func BrollPatch(project timeline.Project) ProjectPatch {
	brolls := make([]timeline.BrollClip, len(project.BrollClips))
	copy(brolls, project.BrollClips)
	return ProjectPatch{BrollClips: &brolls}
}

// AudioPatch builds a patch for the project-level audio override.
func AudioPatch(project timeline.Project) ProjectPatch {
	audio := project.AudioURL
	return ProjectPatch{AudioURL: &audio}
}

// ThumbnailPatch builds a patch for the project thumbnail.
func ThumbnailPatch(project timeline.Project) ProjectPatch {
	thumb := project.ThumbnailURL
	return ProjectPatch{ThumbnailURL: &thumb}
}

// StitchPatch builds a patch mirroring the project's stitch outcome fields.
func StitchPatch(project timeline.Project) ProjectPatch {
	status := project.StitchStatus
	video := project.StitchedVideoURL
	stitchErr := project.StitchError
	return ProjectPatch{
		StitchStatus:     &status,
		StitchedVideoURL: &video,
		StitchError:      &stitchErr,
	}
}
