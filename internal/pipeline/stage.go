package pipeline

// Stage is one step of the upload pipeline.
type Stage string

const (
	StageIdle                Stage = "idle"
	StageUploading           Stage = "uploading"
	StageExtracting          Stage = "extracting"
	StageSummarizingBrief    Stage = "summarizing_brief"
	StageSummarizingDetailed Stage = "summarizing_detailed"
	StageSummarizingBullets  Stage = "summarizing_bullets"
	StagePersisting          Stage = "persisting"
	StageDone                Stage = "done"
	StageFailed              Stage = "failed"
)

// Progress is a snapshot reported on every stage transition.
type Progress struct {
	Stage   Stage
	Percent int
	Step    string
}

// ProgressFunc observes progress. It is called synchronously from the pipeline goroutine.
type ProgressFunc func(Progress)

type stageInfo struct {
	percent int
	step    string
}

var stages = map[Stage]stageInfo{
	StageUploading:           {10, "Uploading PDF..."},
	StageExtracting:          {30, "Extracting text from PDF..."},
	StageSummarizingBrief:    {50, "Generating brief summary..."},
	StageSummarizingDetailed: {65, "Generating detailed summary..."},
	StageSummarizingBullets:  {80, "Generating bullet points..."},
	StagePersisting:          {95, "Saving document..."},
	StageDone:                {100, ""},
	StageFailed:              {0, ""},
}

// ProgressFor returns the progress snapshot emitted on entering s.
func ProgressFor(s Stage) Progress {
	info := stages[s]
	return Progress{Stage: s, Percent: info.percent, Step: info.step}
}
