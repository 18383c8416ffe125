package service

import (
	"task-management-backend/app/model"
	"task-management-backend/utils"
)

// Pemeriksaan otorisasi dikumpulkan di sini supaya setiap endpoint memakai
// aturan yang sama, bukan cek role yang ditulis ulang di handler.

// requireTeacher: hanya guru.
func requireTeacher(actor model.Actor, msg string) error {
	if !actor.IsTeacher() {
		return utils.Forbidden(msg)
	}
	return nil
}

// canMutateTask: hanya guru pembuat task yang boleh mengubah / menghapus.
func canMutateTask(actor model.Actor, task *model.Task) error {
	if !actor.IsTeacher() || task.CreatedBy != actor.ID {
		return utils.Forbidden("Anda tidak memiliki akses untuk mengubah task ini")
	}
	return nil
}

// canViewTaskAsOwner: guru pembuat task.
func canViewTaskAsOwner(actor model.Actor, task *model.Task) error {
	if task.CreatedBy != actor.ID {
		return utils.Forbidden("Anda tidak memiliki akses untuk melihat task ini")
	}
	return nil
}

// canManageUser: user itu sendiri atau guru.
func canManageUser(actor model.Actor, target *model.User) error {
	if actor.ID == target.ID || actor.IsTeacher() {
		return nil
	}
	return utils.Forbidden("Anda tidak memiliki akses untuk mengubah user ini")
}
