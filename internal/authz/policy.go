// Package authz centralizes the role permission policy. Every role check in
// the API, whether gating a handler or a service operation, goes through
// CanPerform; there are no scattered per-handler role lists.
package authz

import "github.com/clinicware/clinic-api/internal/model"

// Action is a permission verb on a resource kind.
type Action string

const (
	ActionCreate       Action = "create"
	ActionRead         Action = "read"
	ActionUpdate       Action = "update"
	ActionUpdateStatus Action = "update_status"
	ActionDelete       Action = "delete"
)

// Resource is a kind of entity guarded by the policy.
type Resource string

const (
	ResourcePatient      Resource = "patient"
	ResourceAppointment  Resource = "appointment"
	ResourcePrescription Resource = "prescription"
	ResourceUser         Resource = "user"
)

type rule struct {
	action   Action
	resource Resource
}

// policy maps each rule to the roles allowed to perform it. Reads are open to
// every authenticated role; mutation rights follow the role dashboards:
// receptionists and admins manage patients and confirm/cancel appointments,
// doctors create prescriptions and complete appointments.
var policy = map[rule][]model.Role{
	{ActionCreate, ResourcePatient}: {model.RoleAdmin, model.RoleReceptionist},
	{ActionRead, ResourcePatient}:   {model.RoleAdmin, model.RoleDoctor, model.RoleReceptionist, model.RolePatient},
	{ActionUpdate, ResourcePatient}: {model.RoleAdmin, model.RoleReceptionist},
	{ActionDelete, ResourcePatient}: {model.RoleAdmin, model.RoleReceptionist},

	{ActionCreate, ResourceAppointment}:       {model.RoleAdmin, model.RoleReceptionist, model.RoleDoctor},
	{ActionRead, ResourceAppointment}:         {model.RoleAdmin, model.RoleDoctor, model.RoleReceptionist, model.RolePatient},
	{ActionUpdate, ResourceAppointment}:       {model.RoleAdmin, model.RoleReceptionist, model.RoleDoctor},
	{ActionUpdateStatus, ResourceAppointment}: {model.RoleAdmin, model.RoleDoctor, model.RoleReceptionist},
	{ActionDelete, ResourceAppointment}:       {model.RoleAdmin, model.RoleReceptionist},

	{ActionCreate, ResourcePrescription}: {model.RoleDoctor, model.RoleAdmin},
	{ActionRead, ResourcePrescription}:   {model.RoleAdmin, model.RoleDoctor, model.RoleReceptionist, model.RolePatient},

	{ActionCreate, ResourceUser}: {model.RoleAdmin},
	{ActionRead, ResourceUser}:   {model.RoleAdmin, model.RoleDoctor, model.RoleReceptionist, model.RolePatient},
	{ActionUpdate, ResourceUser}: {model.RoleAdmin},
	{ActionDelete, ResourceUser}: {model.RoleAdmin},
}

// CanPerform reports whether role may perform action on resource. Unknown
// combinations are denied.
func CanPerform(role model.Role, action Action, resource Resource) bool {
	for _, allowed := range policy[rule{action, resource}] {
		if allowed == role {
			return true
		}
	}
	return false
}
