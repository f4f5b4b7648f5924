package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/gamisaur/gccan/internal/model"
	"gorm.io/gorm"
)

// fakeFAQRepo is an in-memory FAQRepository.
type fakeFAQRepo struct {
	nextID uint
	faqs   map[uint]model.FAQ
}

func newFakeFAQRepo() *fakeFAQRepo {
	return &fakeFAQRepo{nextID: 1, faqs: make(map[uint]model.FAQ)}
}

func (r *fakeFAQRepo) Create(faq *model.FAQ) error {
	faq.ID = r.nextID
	r.nextID++
	r.faqs[faq.ID] = *faq
	return nil
}

func (r *fakeFAQRepo) FindByID(id uint) (*model.FAQ, error) {
	faq, ok := r.faqs[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &faq, nil
}

func (r *fakeFAQRepo) FindAll() ([]model.FAQ, error) {
	ids := make([]uint, 0, len(r.faqs))
	for id := range r.faqs {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	out := make([]model.FAQ, 0, len(ids))
	for _, id := range ids {
		out = append(out, r.faqs[id])
	}
	return out, nil
}

func (r *fakeFAQRepo) UpdateAnswer(id uint, answer string) error {
	faq, ok := r.faqs[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	faq.Answer = answer
	r.faqs[id] = faq
	return nil
}

func (r *fakeFAQRepo) Delete(id uint) error {
	delete(r.faqs, id)
	return nil
}

// fakeScheduleRepo is an in-memory ScheduleRepository.
type fakeScheduleRepo struct {
	nextID   uint
	faculty  map[string]model.Faculty
	subjects map[uint]model.Subject
}

func newFakeScheduleRepo() *fakeScheduleRepo {
	return &fakeScheduleRepo{
		nextID:   1,
		faculty:  make(map[string]model.Faculty),
		subjects: make(map[uint]model.Subject),
	}
}

func (r *fakeScheduleRepo) UpsertFaculty(f *model.Faculty) error {
	existing, ok := r.faculty[f.Email]
	if ok {
		existing.Name = f.Name
		r.faculty[f.Email] = existing
		return nil
	}
	r.faculty[f.Email] = *f
	return nil
}

func (r *fakeScheduleRepo) FindAllFaculty() ([]model.Faculty, error) {
	emails := make([]string, 0, len(r.faculty))
	for email := range r.faculty {
		emails = append(emails, email)
	}
	sort.Strings(emails)
	out := make([]model.Faculty, 0, len(emails))
	for _, email := range emails {
		out = append(out, r.faculty[email])
	}
	return out, nil
}

func (r *fakeScheduleRepo) FindSubjectsByFaculty(facultyEmail string) ([]model.Subject, error) {
	ids := make([]uint, 0, len(r.subjects))
	for id, sub := range r.subjects {
		if sub.FacultyEmail == facultyEmail {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	out := make([]model.Subject, 0, len(ids))
	for _, id := range ids {
		out = append(out, r.subjects[id])
	}
	return out, nil
}

func (r *fakeScheduleRepo) CreateSubject(subject *model.Subject) error {
	subject.ID = r.nextID
	r.nextID++
	r.subjects[subject.ID] = *subject
	return nil
}

func (r *fakeScheduleRepo) FindSubject(facultyEmail string, subjectID uint) (*model.Subject, error) {
	sub, ok := r.subjects[subjectID]
	if !ok || sub.FacultyEmail != facultyEmail {
		return nil, gorm.ErrRecordNotFound
	}
	return &sub, nil
}

func (r *fakeScheduleRepo) UpdateSubjectClassType(facultyEmail string, subjectID uint, classType string) error {
	sub, ok := r.subjects[subjectID]
	if !ok || sub.FacultyEmail != facultyEmail {
		return gorm.ErrRecordNotFound
	}
	sub.ClassType = classType
	r.subjects[subjectID] = sub
	return nil
}

func (r *fakeScheduleRepo) DeleteSubject(facultyEmail string, subjectID uint) error {
	sub, ok := r.subjects[subjectID]
	if ok && sub.FacultyEmail == facultyEmail {
		delete(r.subjects, subjectID)
	}
	return nil
}

// fakeFeedbackRepo is an in-memory FeedbackRepository whose emissions are
// triggered manually from tests via emit().
type fakeFeedbackRepo struct {
	nextID     int
	entries    map[string]model.Feedback
	onSnapshot func([]model.Feedback)
}

func newFakeFeedbackRepo() *fakeFeedbackRepo {
	return &fakeFeedbackRepo{nextID: 1, entries: make(map[string]model.Feedback)}
}

func (r *fakeFeedbackRepo) snapshot() []model.Feedback {
	out := make([]model.Feedback, 0, len(r.entries))
	for _, entry := range r.entries {
		out = append(out, entry)
	}
	return out
}

// emit pushes the current collection to the subscriber, like a store event.
func (r *fakeFeedbackRepo) emit() {
	if r.onSnapshot != nil {
		r.onSnapshot(r.snapshot())
	}
}

func (r *fakeFeedbackRepo) Create(_ context.Context, feedback *model.Feedback) (string, error) {
	feedback.ID = fmt.Sprintf("fb-%d", r.nextID)
	r.nextID++
	r.entries[feedback.ID] = *feedback
	return feedback.ID, nil
}

func (r *fakeFeedbackRepo) FindAll(_ context.Context) ([]model.Feedback, error) {
	return r.snapshot(), nil
}

func (r *fakeFeedbackRepo) FindByID(_ context.Context, id string) (*model.Feedback, error) {
	entry, ok := r.entries[id]
	if !ok {
		return nil, fmt.Errorf("feedback %s not found", id)
	}
	return &entry, nil
}

func (r *fakeFeedbackRepo) SetResolved(_ context.Context, id string, resolved bool) error {
	entry, ok := r.entries[id]
	if !ok {
		return fmt.Errorf("feedback %s not found", id)
	}
	entry.Resolved = resolved
	r.entries[id] = entry
	return nil
}

func (r *fakeFeedbackRepo) Delete(_ context.Context, id string) error {
	delete(r.entries, id)
	return nil
}

func (r *fakeFeedbackRepo) Subscribe(_ context.Context, onSnapshot func([]model.Feedback)) (func(), error) {
	r.onSnapshot = onSnapshot
	onSnapshot(r.snapshot())
	return func() { r.onSnapshot = nil }, nil
}

// fakeTranscriptRepo is an in-memory TranscriptRepository.
type fakeTranscriptRepo struct {
	transcripts map[string][]model.ChatTurn
}

func newFakeTranscriptRepo() *fakeTranscriptRepo {
	return &fakeTranscriptRepo{transcripts: make(map[string][]model.ChatTurn)}
}

func (r *fakeTranscriptRepo) GetTranscript(_ context.Context, sessionID string) ([]model.ChatTurn, error) {
	return r.transcripts[sessionID], nil
}

func (r *fakeTranscriptRepo) AppendTurns(_ context.Context, sessionID string, turns ...model.ChatTurn) error {
	r.transcripts[sessionID] = append(r.transcripts[sessionID], turns...)
	return nil
}

func (r *fakeTranscriptRepo) Clear(_ context.Context, sessionID string) error {
	delete(r.transcripts, sessionID)
	return nil
}

// fakeSessionRepo is an in-memory SessionRepository.
type fakeSessionRepo struct {
	sessions map[string]model.Session
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: make(map[string]model.Session)}
}

func (r *fakeSessionRepo) Get(_ context.Context, sessionID string) (*model.Session, error) {
	session, ok := r.sessions[sessionID]
	if !ok {
		return &model.Session{ID: sessionID, State: model.StateLanding}, nil
	}
	return &session, nil
}

func (r *fakeSessionRepo) Save(_ context.Context, session *model.Session) error {
	r.sessions[session.ID] = *session
	return nil
}

// fakeMailer records sent mail and can be made to fail.
type fakeMailer struct {
	replies []string
	notices []string
	failing bool
}

func (m *fakeMailer) SendReply(to, question, reply string) error {
	if m.failing {
		return fmt.Errorf("mail dispatch failed")
	}
	m.replies = append(m.replies, fmt.Sprintf("%s|%s|%s", to, question, reply))
	return nil
}

func (m *fakeMailer) SendFeedbackNotice(submitterEmail, message string) error {
	if m.failing {
		return fmt.Errorf("mail dispatch failed")
	}
	m.notices = append(m.notices, fmt.Sprintf("%s|%s", submitterEmail, message))
	return nil
}

// fakeFAQIndex matches on substring, newest document wins.
type fakeFAQIndex struct {
	docs    []model.FAQDocument
	deleted []string
	failing bool
}

func (i *fakeFAQIndex) Index(_ context.Context, doc model.FAQDocument) error {
	if i.failing {
		return fmt.Errorf("index unavailable")
	}
	i.docs = append(i.docs, doc)
	return nil
}

func (i *fakeFAQIndex) Delete(_ context.Context, faqID string) error {
	if i.failing {
		return fmt.Errorf("index unavailable")
	}
	i.deleted = append(i.deleted, faqID)
	return nil
}

func (i *fakeFAQIndex) Search(_ context.Context, query string, size int) ([]model.FAQDocument, error) {
	if i.failing {
		return nil, fmt.Errorf("index unavailable")
	}
	var out []model.FAQDocument
	for j := len(i.docs) - 1; j >= 0 && len(out) < size; j-- {
		if strings.Contains(strings.ToLower(i.docs[j].Question), strings.ToLower(query)) {
			out = append(out, i.docs[j])
		}
	}
	return out, nil
}
