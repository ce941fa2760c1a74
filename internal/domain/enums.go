package domain

// Closed vocabularies. Each set is mirrored by a CHECK constraint on its
// column and by a oneof rule on the struct field.

type AccountRole string

const (
	RoleGuest         AccountRole = "guest"
	RoleStudent       AccountRole = "student"
	RoleStaff         AccountRole = "staff"
	RoleModerator     AccountRole = "moderator"
	RoleAdministrator AccountRole = "administrator"
)

func AccountRoles() []AccountRole {
	return []AccountRole{RoleGuest, RoleStudent, RoleStaff, RoleModerator, RoleAdministrator}
}

type PartnerType string

const (
	PartnerLocal         PartnerType = "local"
	PartnerRegional      PartnerType = "regional"
	PartnerNational      PartnerType = "national"
	PartnerInternational PartnerType = "international"
	PartnerGlobal        PartnerType = "global"
)

func PartnerTypes() []PartnerType {
	return []PartnerType{PartnerLocal, PartnerRegional, PartnerNational, PartnerInternational, PartnerGlobal}
}

// ProjectType is based on the financial source or orientation of the project.
type ProjectType string

const (
	ProjectResearch   ProjectType = "research"
	ProjectCommercial ProjectType = "commercial"
	ProjectCommunity  ProjectType = "community"
)

func ProjectTypes() []ProjectType {
	return []ProjectType{ProjectResearch, ProjectCommercial, ProjectCommunity}
}

type ProjectStatus string

const (
	ProjectActive    ProjectStatus = "active"
	ProjectCompleted ProjectStatus = "completed"
)

func ProjectStatuses() []ProjectStatus {
	return []ProjectStatus{ProjectActive, ProjectCompleted}
}

type EquipmentStatus string

const (
	EquipmentActive        EquipmentStatus = "active"
	EquipmentMalfunctioned EquipmentStatus = "malfunctioned"
	EquipmentMaintenance   EquipmentStatus = "maintenance"
	EquipmentRetired       EquipmentStatus = "retired"
)

func EquipmentStatuses() []EquipmentStatus {
	return []EquipmentStatus{EquipmentActive, EquipmentMalfunctioned, EquipmentMaintenance, EquipmentRetired}
}

func (s EquipmentStatus) Valid() bool {
	for _, v := range EquipmentStatuses() {
		if v == s {
			return true
		}
	}
	return false
}

type BookingStatus string

const (
	BookingRequested BookingStatus = "requested"
	BookingApproved  BookingStatus = "approved"
	BookingRejected  BookingStatus = "rejected"
	BookingCancelled BookingStatus = "cancelled"
	BookingCompleted BookingStatus = "completed"
)

func BookingStatuses() []BookingStatus {
	return []BookingStatus{BookingRequested, BookingApproved, BookingRejected, BookingCancelled, BookingCompleted}
}

type ReportStatus string

const (
	ReportDraft     ReportStatus = "draft"
	ReportSubmitted ReportStatus = "submitted"
	ReportRevision  ReportStatus = "revision"
	ReportApproved  ReportStatus = "approved"
)

func ReportStatuses() []ReportStatus {
	return []ReportStatus{ReportDraft, ReportSubmitted, ReportRevision, ReportApproved}
}

type PresentationVisibility string

const (
	VisibilityPrivateInternal  PresentationVisibility = "private_internal"
	VisibilityStakeholdersOnly PresentationVisibility = "stakeholders_only"
	VisibilityPublicCommunity  PresentationVisibility = "public_community"
)

func PresentationVisibilities() []PresentationVisibility {
	return []PresentationVisibility{VisibilityPrivateInternal, VisibilityStakeholdersOnly, VisibilityPublicCommunity}
}

// ResourceType is the discriminant of the resource taxonomy.
type ResourceType string

const (
	ResourcePresentation       ResourceType = "presentation"
	ResourceReport             ResourceType = "report"
	ResourcePublication        ResourceType = "publication"
	ResourceSoftwareRepository ResourceType = "software_repository"
	ResourceDataset            ResourceType = "dataset"
)

func ResourceTypes() []ResourceType {
	return []ResourceType{ResourcePresentation, ResourceReport, ResourcePublication, ResourceSoftwareRepository, ResourceDataset}
}

type HistoryAction string

const (
	HistoryCreated HistoryAction = "created"
	HistoryUpdated HistoryAction = "updated"
	HistoryDeleted HistoryAction = "deleted"
)
