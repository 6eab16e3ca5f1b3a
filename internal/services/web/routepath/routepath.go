// Package routepath centralizes web route constants and builders.
package routepath

import "strconv"

const (
	// AppRoot is the authenticated application root.
	AppRoot = "/app"
	// AppProjects lists the viewer's projects.
	AppProjects = "/app/projects"
	// ProjectsPrefix is the mount prefix for the projects module.
	ProjectsPrefix = "/app/projects/"

	// AppProjectPattern matches a project overview page.
	AppProjectPattern = "/app/projects/{projectID}"
	// AppProjectOutlinePattern matches a project outline page.
	AppProjectOutlinePattern = "/app/projects/{projectID}/outline"
	// AppProjectSettingsPattern matches a project settings page.
	AppProjectSettingsPattern = "/app/projects/{projectID}/settings"
)

// AppProject builds the overview path for a project.
func AppProject(projectID int64) string {
	return AppProjects + "/" + strconv.FormatInt(projectID, 10)
}

// AppProjectOutline builds the outline path for a project.
func AppProjectOutline(projectID int64) string {
	return AppProject(projectID) + "/outline"
}

// AppProjectSettings builds the settings path for a project.
func AppProjectSettings(projectID int64) string {
	return AppProject(projectID) + "/settings"
}
