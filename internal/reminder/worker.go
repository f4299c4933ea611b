package reminder

import (
	"context"
	"fmt"
	"log"
	"time"

	"taskhub/internal/mailer"
	"taskhub/internal/model"
)

// TaskSource отдаёт активные задачи со сроком на завтра
type TaskSource interface {
	DueTomorrow(ctx context.Context) ([]model.Task, error)
}

// Worker периодически рассылает владельцам напоминания о задачах
type Worker struct {
	tasks    TaskSource
	mailer   mailer.Mailer
	interval time.Duration
}

func NewWorker(tasks TaskSource, m mailer.Mailer, interval time.Duration) *Worker {
	return &Worker{tasks: tasks, mailer: m, interval: interval}
}

// Start запускает цикл рассылки до отмены контекста
func (w *Worker) Start(ctx context.Context) {
	log.Printf("🚀 Reminder worker started, interval %s", w.interval)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("🛑 Reminder worker stopped")
			return
		case <-ticker.C:
			if err := w.Run(ctx); err != nil {
				log.Printf("❌ Reminder run failed: %v", err)
			}
		}
	}
}

// Run выполняет один проход: письмо на каждую завтрашнюю задачу.
// Ошибка отправки одного письма не прерывает рассылку остальных.
func (w *Worker) Run(ctx context.Context) error {
	tasks, err := w.tasks.DueTomorrow(ctx)
	if err != nil {
		return err
	}

	sent := 0
	for _, task := range tasks {
		if task.Owner.Email == "" {
			continue
		}
		if err := w.mailer.Send(task.Owner.Email, subject(&task), body(&task)); err != nil {
			log.Printf("⚠️  Failed to send reminder for task %d to %s: %v", task.ID, task.Owner.Email, err)
			continue
		}
		sent++
	}

	if len(tasks) > 0 {
		log.Printf("✅ Reminders sent: %d of %d", sent, len(tasks))
	}
	return nil
}

func subject(task *model.Task) string {
	return fmt.Sprintf("Reminder: \"%s\" is due tomorrow", task.Title)
}

func body(task *model.Task) string {
	return fmt.Sprintf(
		"<p>Hi %s,</p>"+
			"<p>Your task <b>%s</b> is due on %s.</p>"+
			"<p>Priority: %s</p>"+
			"<p>%s</p>"+
			"<p>Thank you!!!</p>",
		task.Owner.Name,
		task.Title,
		task.Date.Format("Mon Jan 02 2006"),
		task.Priority,
		task.Description,
	)
}
