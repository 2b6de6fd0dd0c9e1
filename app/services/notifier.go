package services

import (
	"log"
	"sync"
)

type welcomeJob struct {
	email string
	name  string
	role  string
}

// Notifier sends welcome e-mails from a background worker. Enqueueing never blocks the caller
// and delivery failures are only logged.
type Notifier struct {
	mailer MailSender
	appURL string

	mu     sync.RWMutex
	closed bool
	jobs   chan welcomeJob
	done   chan struct{}
}

// NewNotifier starts the worker. A nil mailer logs and skips every job.
func NewNotifier(mailer MailSender, queueSize int, appURL string) *Notifier {
	if queueSize <= 0 {
		queueSize = 1
	}
	n := &Notifier{
		mailer: mailer,
		appURL: appURL,
		jobs:   make(chan welcomeJob, queueSize),
		done:   make(chan struct{}),
	}
	go n.run()
	return n
}

func (n *Notifier) WelcomeEmail(email, name, role string) {
	n.mu.RLock()
	defer n.mu.RUnlock()

	if n.closed {
		log.Printf("WelcomeEmail: notifier closed, dropping welcome email for %s", email)
		notificationOutcomes.WithLabelValues(outcomeDropped).Inc()
		return
	}

	select {
	case n.jobs <- welcomeJob{email: email, name: name, role: role}:
	default:
		log.Printf("WelcomeEmail: queue full, dropping welcome email for %s", email)
		notificationOutcomes.WithLabelValues(outcomeDropped).Inc()
	}
}

// Close stops accepting jobs and waits for the queue to drain.
func (n *Notifier) Close() {
	n.mu.Lock()
	if n.closed {
		n.mu.Unlock()
		<-n.done
		return
	}
	n.closed = true
	close(n.jobs)
	n.mu.Unlock()

	<-n.done
}

func (n *Notifier) run() {
	defer close(n.done)
	for job := range n.jobs {
		n.deliver(job)
	}
}

func (n *Notifier) deliver(job welcomeJob) {
	defer func() {
		if rec := recover(); rec != nil {
			log.Printf("deliver: panic while sending welcome email to %s: %v", job.email, rec)
			notificationOutcomes.WithLabelValues(outcomeFailed).Inc()
		}
	}()

	if n.mailer == nil {
		log.Printf("deliver: mailer not configured, skipping welcome email for %s", job.email)
		notificationOutcomes.WithLabelValues(outcomeSkipped).Inc()
		return
	}

	body, err := BuildWelcomeEmailBody(job.name, job.role, n.appURL)
	if err != nil {
		log.Printf("deliver: %v", err)
		notificationOutcomes.WithLabelValues(outcomeFailed).Inc()
		return
	}

	if err := n.mailer.SendHTMLEmail(job.email, WelcomeSubject, body); err != nil {
		log.Printf("deliver: welcome email to %s failed: %v", job.email, err)
		notificationOutcomes.WithLabelValues(outcomeFailed).Inc()
		return
	}

	notificationOutcomes.WithLabelValues(outcomeSent).Inc()
}
