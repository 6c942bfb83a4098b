package domain

import (
	"encoding/json"
	"fmt"
	"strings"
)

// PermissionLevel is ordered: None < Read < Execute < Write.
type PermissionLevel string

const (
	PermissionLevelNone    PermissionLevel = "None"
	PermissionLevelRead    PermissionLevel = "Read"
	PermissionLevelExecute PermissionLevel = "Execute"
	PermissionLevelWrite   PermissionLevel = "Write"
)

var permissionLevelRanks = map[PermissionLevel]int{
	PermissionLevelNone:    0,
	PermissionLevelRead:    1,
	PermissionLevelExecute: 2,
	PermissionLevelWrite:   3,
}

// Rank returns the position of the level in the ordering. Unknown levels rank
// as None.
func (l PermissionLevel) Rank() int {
	return permissionLevelRanks[l]
}

func (l PermissionLevel) AtLeast(other PermissionLevel) bool {
	return l.Rank() >= other.Rank()
}

func ParsePermissionLevel(s string) (PermissionLevel, error) {
	for level := range permissionLevelRanks {
		if strings.EqualFold(string(level), s) {
			return level, nil
		}
	}

	return PermissionLevelNone, fmt.Errorf("invalid permission level %q", s)
}

// SpecificPermission is a fine grained grant orthogonal to the level.
type SpecificPermission string

const (
	SpecificPermissionTerminal  SpecificPermission = "Terminal"
	SpecificPermissionAttach    SpecificPermission = "Attach"
	SpecificPermissionInspect   SpecificPermission = "Inspect"
	SpecificPermissionLogs      SpecificPermission = "Logs"
	SpecificPermissionProcesses SpecificPermission = "Processes"
)

var specificPermissions = []SpecificPermission{
	SpecificPermissionTerminal,
	SpecificPermissionAttach,
	SpecificPermissionInspect,
	SpecificPermissionLogs,
	SpecificPermissionProcesses,
}

func ParseSpecificPermission(s string) (SpecificPermission, error) {
	for _, specific := range specificPermissions {
		if strings.EqualFold(string(specific), s) {
			return specific, nil
		}
	}

	return "", fmt.Errorf("invalid specific permission %q", s)
}

// SpecificPermissions is a set that keeps insertion order, so it serializes
// the same way it was built.
type SpecificPermissions []SpecificPermission

func NewSpecificPermissions(specific ...SpecificPermission) SpecificPermissions {
	var set SpecificPermissions
	for _, s := range specific {
		set = set.Add(s)
	}
	return set
}

func (s SpecificPermissions) Contains(specific SpecificPermission) bool {
	for _, existing := range s {
		if existing == specific {
			return true
		}
	}
	return false
}

// Add appends specific unless it is already present.
func (s SpecificPermissions) Add(specific SpecificPermission) SpecificPermissions {
	if s.Contains(specific) {
		return s
	}
	return append(s, specific)
}

func (s *SpecificPermissions) UnmarshalJSON(data []byte) error {
	var raw []SpecificPermission
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*s = NewSpecificPermissions(raw...)

	return nil
}

type UserTargetVariant string

const (
	UserTargetVariantUser      UserTargetVariant = "User"
	UserTargetVariantUserGroup UserTargetVariant = "UserGroup"
)

// UserTarget is either a single user or a user group.
type UserTarget struct {
	Type UserTargetVariant `json:"type" bson:"type"`
	ID   string            `json:"id" bson:"id"`
}

func UserTargetUser(id string) UserTarget {
	return UserTarget{Type: UserTargetVariantUser, ID: id}
}

func UserTargetGroup(id string) UserTarget {
	return UserTarget{Type: UserTargetVariantUserGroup, ID: id}
}

type ResourceTargetVariant string

const (
	ResourceTargetVariantSystem       ResourceTargetVariant = "System"
	ResourceTargetVariantServer       ResourceTargetVariant = "Server"
	ResourceTargetVariantStack        ResourceTargetVariant = "Stack"
	ResourceTargetVariantDeployment   ResourceTargetVariant = "Deployment"
	ResourceTargetVariantBuild        ResourceTargetVariant = "Build"
	ResourceTargetVariantRepo         ResourceTargetVariant = "Repo"
	ResourceTargetVariantProcedure    ResourceTargetVariant = "Procedure"
	ResourceTargetVariantAction       ResourceTargetVariant = "Action"
	ResourceTargetVariantBuilder      ResourceTargetVariant = "Builder"
	ResourceTargetVariantAlerter      ResourceTargetVariant = "Alerter"
	ResourceTargetVariantResourceSync ResourceTargetVariant = "ResourceSync"
)

var resourceTargetVariants = []ResourceTargetVariant{
	ResourceTargetVariantSystem,
	ResourceTargetVariantServer,
	ResourceTargetVariantStack,
	ResourceTargetVariantDeployment,
	ResourceTargetVariantBuild,
	ResourceTargetVariantRepo,
	ResourceTargetVariantProcedure,
	ResourceTargetVariantAction,
	ResourceTargetVariantBuilder,
	ResourceTargetVariantAlerter,
	ResourceTargetVariantResourceSync,
}

// ResourceTarget identifies one managed resource by kind and id.
type ResourceTarget struct {
	Type ResourceTargetVariant `json:"type" bson:"type"`
	ID   string                `json:"id" bson:"id"`
}

// ResourceTargeter is implemented by anything that can be turned into a
// ResourceTarget, including ResourceTarget itself.
type ResourceTargeter interface {
	ResourceTarget() ResourceTarget
}

func (t ResourceTarget) ResourceTarget() ResourceTarget {
	return t
}

func (t ResourceTarget) String() string {
	return fmt.Sprintf("%s:%s", t.Type, t.ID)
}

func ServerTarget(id string) ResourceTarget {
	return ResourceTarget{Type: ResourceTargetVariantServer, ID: id}
}

func StackTarget(id string) ResourceTarget {
	return ResourceTarget{Type: ResourceTargetVariantStack, ID: id}
}

func DeploymentTarget(id string) ResourceTarget {
	return ResourceTarget{Type: ResourceTargetVariantDeployment, ID: id}
}

func BuildTarget(id string) ResourceTarget {
	return ResourceTarget{Type: ResourceTargetVariantBuild, ID: id}
}

func RepoTarget(id string) ResourceTarget {
	return ResourceTarget{Type: ResourceTargetVariantRepo, ID: id}
}

func ProcedureTarget(id string) ResourceTarget {
	return ResourceTarget{Type: ResourceTargetVariantProcedure, ID: id}
}

func ActionTarget(id string) ResourceTarget {
	return ResourceTarget{Type: ResourceTargetVariantAction, ID: id}
}

func BuilderTarget(id string) ResourceTarget {
	return ResourceTarget{Type: ResourceTargetVariantBuilder, ID: id}
}

func AlerterTarget(id string) ResourceTarget {
	return ResourceTarget{Type: ResourceTargetVariantAlerter, ID: id}
}

func ResourceSyncTarget(id string) ResourceTarget {
	return ResourceTarget{Type: ResourceTargetVariantResourceSync, ID: id}
}

// ParseResourceTarget parses the "Kind:id" form printed by String.
func ParseResourceTarget(s string) (ResourceTarget, error) {
	kind, id, ok := strings.Cut(s, ":")
	if !ok || id == "" {
		return ResourceTarget{}, fmt.Errorf("invalid resource target %q, expected Kind:id", s)
	}

	for _, variant := range resourceTargetVariants {
		if strings.EqualFold(string(variant), kind) {
			return ResourceTarget{Type: variant, ID: id}, nil
		}
	}

	return ResourceTarget{}, fmt.Errorf("unknown resource kind %q", kind)
}

// Permission links a user or group to a resource. There is at most one per
// (UserTarget, ResourceTarget).
type Permission struct {
	ID             string              `json:"id" bson:"_id,omitempty"`
	UserTarget     UserTarget          `json:"user_target" bson:"user_target"`
	ResourceTarget ResourceTarget      `json:"resource_target" bson:"resource_target"`
	Level          PermissionLevel     `json:"level" bson:"level"`
	Specific       SpecificPermissions `json:"specific" bson:"specific"`
}
