package models

// SystemInfo describes the backend build as reported by /api/system/sysinfo.
type SystemInfo struct {
	ProjectName  string `json:"project_name,omitempty"`
	ProgLongName string `json:"prog_longname,omitempty"`
	Description  string `json:"description,omitempty"`
	Version      string `json:"version,omitempty"`
	Homepage     string `json:"homepage,omitempty"`
	Author       string `json:"author,omitempty"`
	License      string `json:"license,omitempty"`
	CreatedYear  string `json:"created_year,omitempty"`
	Organization string `json:"organization,omitempty"`
	Domain       string `json:"domain,omitempty"`
	CXXStandard  string `json:"cxx_standard,omitempty"`
	Compiler     string `json:"compiler,omitempty"`
	QtVersion    string `json:"qt_version,omitempty"`
}
