package haggis

// bind folds instructions, in order, into a fresh copy of the template.
// List fields accumulate; every other field keeps the last value written.
func (p *Parser) bind(instructions []Instruction, d *diagnostics) *Result {
	r := newResult(p.schema)

	for i := range instructions {
		ins := &instructions[i]

		for _, name := range ins.Names {
			idx, known := r.index[name]
			if !known {
				if p.strict {
					d.unknownField(name, ins, p.schema)
					continue
				}
				idx = r.add(name, Null(), FieldAny)
			}

			slot := &r.fields[idx]
			switch slot.Kind {
			case FieldList:
				if slot.Value.kind != KindList {
					slot.Value = List()
				}
				slot.Value.list = append(slot.Value.list, ins.Data...)
			case FieldFlag, FieldCounter, FieldNumber, FieldText, FieldAny:
				if len(ins.Data) > 0 {
					slot.Value = ins.Data[len(ins.Data)-1]
				}
			}
		}
	}

	r.diagnostics = d.list
	return r
}
